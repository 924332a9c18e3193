package universe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"russell2000/pkg/scrape"
	"russell2000/pkg/ticker"
)

// Updater runs the source chain and rewrites the universe file when a source
// produces a trustworthy result.
type Updater struct {
	OutputPath string
	ReportPath string
	RunID      string
	Sources    []scrape.Source
	logger     *zap.Logger
}

func NewUpdater(logger *zap.Logger) *Updater {
	return &Updater{
		OutputPath: DefaultPath,
		ReportPath: DefaultReportPath,
		Sources: []scrape.Source{
			scrape.NewStockAnalysis(logger),
			scrape.NewFinviz(logger),
		},
		logger: logger,
	}
}

// Report summarizes one successful run.
type Report struct {
	RunID        string         `json:"run_id,omitempty"`
	CompletedAt  time.Time      `json:"completed_at"`
	Source       string         `json:"source"`
	SourceCounts map[string]int `json:"source_counts"`
	Written      int            `json:"written"`
	DurationMS   int64          `json:"duration_ms"`
}

// Run tries each source in order and finalizes with the first result meeting
// the acceptance threshold. When every source comes up short, an existing
// file is deliberately left untouched; the error return is reserved for the
// case where there is no file to fall back on.
func (u *Updater) Run() error {
	start := time.Now()

	var accepted []string
	var winner string
	counts := make(map[string]int, len(u.Sources))

	for _, src := range u.Sources {
		u.logger.Info("trying source", zap.String("source", src.Name()))
		symbols, err := src.Fetch()
		if err != nil {
			u.logger.Warn("source failed",
				zap.String("source", src.Name()), zap.Error(err))
		}
		counts[src.Name()] = len(symbols)
		if len(symbols) >= scrape.MinAccept {
			accepted, winner = symbols, src.Name()
			break
		}
	}

	if accepted == nil {
		if existing := LoadExisting(u.OutputPath); len(existing) > 0 {
			u.logger.Warn("all sources failed, keeping existing file",
				zap.String("path", u.OutputPath),
				zap.Int("symbols", len(existing)))
			return nil
		}
		return errors.New("all sources failed and no existing universe file")
	}

	final := finalize(accepted)
	if err := Write(u.OutputPath, final); err != nil {
		return fmt.Errorf("write %s: %w", u.OutputPath, err)
	}
	u.logger.Info("universe updated",
		zap.String("source", winner),
		zap.String("path", u.OutputPath),
		zap.Int("symbols", len(final)))

	u.writeReport(Report{
		RunID:        u.RunID,
		CompletedAt:  time.Now().UTC(),
		Source:       winner,
		SourceCounts: counts,
		Written:      len(final),
		DurationMS:   time.Since(start).Milliseconds(),
	})
	return nil
}

// finalize re-validates, drops denylisted ETFs, dedupes, and sorts. Order
// collected upstream no longer matters at this point.
func finalize(symbols []string) []string {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if ticker.Valid(s) && !ticker.Denylisted(s) {
			set[s] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// writeReport drops a prettified run summary next to the universe file.
// Failures here are logged and swallowed; the report is diagnostics, not
// output.
func (u *Updater) writeReport(r Report) {
	if u.ReportPath == "" {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		u.logger.Warn("report marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(u.ReportPath, pretty.Pretty(data), 0644); err != nil {
		u.logger.Warn("report write failed",
			zap.String("path", u.ReportPath), zap.Error(err))
	}
}
