package ticker

import (
	"strings"

	"github.com/tidwall/gjson"
)

// maxExtractDepth bounds the recursive walk; upstream payloads are deeply
// nested Next.js page props and the symbol arrays sit well above this depth.
const maxExtractDepth = 10

// candidateKeys are checked in order on every object encountered.
var candidateKeys = []string{"s", "symbol", "ticker", "Symbol", "Ticker"}

// ExtractFromJSON walks an arbitrary JSON document collecting every
// ticker-shaped string stored under one of the candidate keys, however deeply
// nested. Values are uppercased before validation. Duplicates are kept; the
// caller dedupes. Invalid JSON yields no symbols.
func ExtractFromJSON(raw []byte) []string {
	if !gjson.ValidBytes(raw) {
		return nil
	}
	return walk(gjson.ParseBytes(raw), 0)
}

func walk(v gjson.Result, depth int) []string {
	if depth > maxExtractDepth {
		return nil
	}
	var symbols []string
	switch {
	case v.IsObject():
		for _, key := range candidateKeys {
			val := v.Get(key)
			if val.Type != gjson.String {
				continue
			}
			sym := strings.ToUpper(val.Str)
			if Valid(sym) {
				symbols = append(symbols, sym)
			}
		}
		v.ForEach(func(_, child gjson.Result) bool {
			symbols = append(symbols, walk(child, depth+1)...)
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, child gjson.Result) bool {
			symbols = append(symbols, walk(child, depth+1)...)
			return true
		})
	}
	return symbols
}
