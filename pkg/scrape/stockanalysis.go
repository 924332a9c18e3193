package scrape

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"russell2000/pkg/ticker"
)

const (
	stockAnalysisURL     = "https://stockanalysis.com/list/russell-2000/"
	stockAnalysisTimeout = 30 * time.Second
)

// The full constituent list is server-side rendered into the Next.js
// __NEXT_DATA__ script block.
var nextDataRe = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

// StockAnalysis fetches the stockanalysis.com Russell 2000 list page in a
// single request, preferring the embedded JSON payload and falling back to
// the rendered HTML table.
type StockAnalysis struct {
	URL    string
	client *Client
	logger *zap.Logger
}

func NewStockAnalysis(logger *zap.Logger) *StockAnalysis {
	return &StockAnalysis{
		URL:    stockAnalysisURL,
		client: NewClient(stockAnalysisTimeout),
		logger: logger,
	}
}

func (s *StockAnalysis) Name() string { return "stockanalysis" }

// Fetch returns the constituent list when either extraction path yields more
// than MinAccept symbols. Below-threshold partial results are discarded, not
// returned.
func (s *StockAnalysis) Fetch() ([]string, error) {
	body, err := s.client.Get(s.URL)
	if err != nil {
		return nil, err
	}

	if m := nextDataRe.FindSubmatch(body); m != nil {
		symbols := extractPayload(m[1])
		if len(symbols) > MinAccept {
			s.logger.Info("stockanalysis: embedded JSON accepted",
				zap.Int("symbols", len(symbols)))
			return symbols, nil
		}
	}

	symbols, err := s.scrapeAnchors(body)
	if err != nil {
		return nil, err
	}
	if len(symbols) > MinAccept {
		s.logger.Info("stockanalysis: HTML table accepted",
			zap.Int("symbols", len(symbols)))
		return symbols, nil
	}

	s.logger.Warn("stockanalysis: yield below threshold",
		zap.Int("symbols", len(symbols)))
	return nil, nil
}

// extractPayload walks the embedded JSON for symbols, repairing the payload
// first when it is not parseable as-is (truncated SSR output shows up in the
// wild).
func extractPayload(raw []byte) []string {
	if gjson.ValidBytes(raw) {
		return ticker.ExtractFromJSON(raw)
	}
	repaired, err := jsonrepair.JSONRepair(string(raw))
	if err != nil {
		return nil
	}
	return ticker.ExtractFromJSON([]byte(repaired))
}

// scrapeAnchors collects symbols from the rendered table; constituents link
// to their /stocks/<symbol>/ pages.
func (s *StockAnalysis) scrapeAnchors(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var symbols []string
	doc.Find(`a[href^="/stocks/"]`).Each(func(_ int, a *goquery.Selection) {
		sym := strings.ToUpper(strings.TrimSpace(a.Text()))
		if ticker.Valid(sym) {
			symbols = append(symbols, sym)
		}
	})
	return ticker.Dedupe(symbols), nil
}
