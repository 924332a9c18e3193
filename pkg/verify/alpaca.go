// Package verify cross-checks a freshly written universe against the Alpaca
// asset list. Purely diagnostic: it never alters the file.
package verify

import (
	"os"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"go.uber.org/zap"
)

// CheckTradable logs how many of the given symbols are unknown to Alpaca's
// active US equity universe. Skipped silently when ALPACA_API_KEY and
// ALPACA_SECRET_KEY are not set; any API failure is logged and ignored.
func CheckTradable(symbols []string, logger *zap.Logger) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	apiSecret := os.Getenv("ALPACA_SECRET_KEY")
	if apiKey == "" || apiSecret == "" {
		logger.Debug("alpaca credentials not set, skipping tradability check")
		return
	}

	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   os.Getenv("ALPACA_BASE_URL"),
	})

	assets, err := client.GetAssets(alpaca.GetAssetsRequest{
		Status:     "active",
		AssetClass: "us_equity",
	})
	if err != nil {
		logger.Warn("alpaca asset lookup failed", zap.Error(err))
		return
	}

	known := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		known[a.Symbol] = struct{}{}
	}

	var unknown []string
	for _, s := range symbols {
		if _, ok := known[s]; !ok {
			unknown = append(unknown, s)
		}
	}

	if len(unknown) == 0 {
		logger.Info("alpaca check: all symbols are active US equities",
			zap.Int("symbols", len(symbols)))
		return
	}
	sample := unknown
	if len(sample) > 10 {
		sample = sample[:10]
	}
	logger.Warn("alpaca check: symbols unknown or inactive",
		zap.Int("count", len(unknown)),
		zap.Strings("sample", sample))
}
