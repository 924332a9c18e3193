// Package universe maintains the on-disk Russell 2000 constituent list and
// the ordered source chain that refreshes it.
package universe

import (
	"os"
	"strings"

	"russell2000/pkg/ticker"
)

const (
	// DefaultPath is where the constituent list lives, one symbol per line.
	DefaultPath = "russell2000.txt"

	// DefaultReportPath is where the run report is written after a
	// successful update.
	DefaultReportPath = "russell2000_report.json"
)

// LoadExisting reads a previously written universe file, keeping only lines
// that still validate as tickers. A missing or unreadable file yields an
// empty list, never an error.
func LoadExisting(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var symbols []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && ticker.Valid(line) {
			symbols = append(symbols, line)
		}
	}
	return symbols
}

// Write persists the universe as newline-joined text with a trailing
// newline.
func Write(path string, symbols []string) error {
	return os.WriteFile(path, []byte(strings.Join(symbols, "\n")+"\n"), 0644)
}
