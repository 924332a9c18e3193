// Package scrape implements the live upstream sources for the Russell 2000
// constituent list.
package scrape

// MinAccept is the minimum symbol count a source must produce before its
// result is trusted over falling through to the next source.
const MinAccept = 500

// Source is one self-contained way of obtaining the constituent list.
// Implementations absorb their own failures: a transport or parse problem
// surfaces as an error for the caller to log, an insufficient yield as a nil
// slice, and neither ever panics past this boundary.
type Source interface {
	Name() string
	Fetch() ([]string, error)
}
