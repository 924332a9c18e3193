// Package ticker holds the symbol validation and normalization rules shared
// by every data source.
package ticker

import "strings"

// denylist contains broad-market ETFs that leak into screener results but are
// not Russell 2000 constituents.
var denylist = map[string]struct{}{
	"SPY": {}, "QQQ": {}, "IWM": {}, "DIA": {}, "RSP": {},
	"GLD": {}, "SLV": {}, "TLT": {}, "HYG": {}, "VXX": {},
	"IEMG": {}, "EFA": {}, "AGG": {}, "BND": {}, "VEA": {},
	"VWO": {}, "IEFA": {}, "ITOT": {}, "IVV": {}, "VOO": {},
}

// Valid reports whether s looks like a US equity ticker: after trimming and
// hyphen removal, 1-5 characters, all uppercase alphabetic.
func Valid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	clean := strings.ReplaceAll(s, "-", "")
	if len(clean) < 1 || len(clean) > 5 {
		return false
	}
	for _, r := range clean {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Denylisted reports whether s is one of the excluded ETF symbols.
func Denylisted(s string) bool {
	_, ok := denylist[s]
	return ok
}

// Dedupe removes duplicates preserving first-seen order.
func Dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
