package scrape

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"russell2000/pkg/ticker"
)

const (
	finvizBaseURL = "https://finviz.com/screener.ashx?v=111&f=idx_russell2000&o=ticker"
	finvizTimeout = 20 * time.Second

	// Hard cap on pages fetched regardless of the advertised total; the
	// screener serves ~20 rows per page and the index holds ~2000 names.
	finvizMaxPages = 110

	// Used when the page carries no "<n> stocks" hint.
	finvizDefaultTotal = 2000

	finvizPageDelay  = 400 * time.Millisecond
	finvizRetryDelay = time.Second
)

var (
	totalStocksRe = regexp.MustCompile(`(\d[\d,]+)\s*stocks`)
	quoteLinkRe   = regexp.MustCompile(`t=([A-Z]+)`)
)

// Finviz paginates the finviz.com screener filtered to the Russell 2000
// index, one row-offset request per page.
type Finviz struct {
	BaseURL    string
	MaxPages   int
	PageDelay  time.Duration
	RetryDelay time.Duration
	client     *Client
	logger     *zap.Logger
}

func NewFinviz(logger *zap.Logger) *Finviz {
	return &Finviz{
		BaseURL:    finvizBaseURL,
		MaxPages:   finvizMaxPages,
		PageDelay:  finvizPageDelay,
		RetryDelay: finvizRetryDelay,
		client:     NewClient(finvizTimeout),
		logger:     logger,
	}
}

func (f *Finviz) Name() string { return "finviz" }

func (f *Finviz) pageURL(rowStart int) string {
	return fmt.Sprintf("%s&r=%d", f.BaseURL, rowStart)
}

// Fetch paginates until the advertised total is covered, a page comes back
// empty (end of listing), or the page cap is hit. A single failed page is
// skipped, not fatal.
func (f *Finviz) Fetch() ([]string, error) {
	body, err := f.client.Get(f.pageURL(1))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	total := f.totalRows(doc)
	symbols := parseScreenerPage(doc)
	f.logger.Info("finviz: page 1",
		zap.Int("symbols", len(symbols)),
		zap.Int("estimated_total", total))
	if len(symbols) == 0 {
		f.logger.Warn("finviz: no symbols on first page")
		return nil, nil
	}

	rowsPerPage := len(symbols)
	maxPage := (total-1)/rowsPerPage + 1
	if maxPage > f.MaxPages {
		maxPage = f.MaxPages
	}

	for page := 2; page <= maxPage; page++ {
		rowStart := (page-1)*rowsPerPage + 1
		pageSymbols, err := f.fetchPage(rowStart)
		if err != nil {
			f.logger.Warn("finviz: page failed, skipping",
				zap.Int("page", page), zap.Error(err))
			time.Sleep(f.RetryDelay)
			continue
		}
		if len(pageSymbols) == 0 {
			f.logger.Info("finviz: end of listing", zap.Int("page", page))
			break
		}
		symbols = append(symbols, pageSymbols...)
		if page%10 == 0 {
			f.logger.Info("finviz: progress",
				zap.Int("page", page), zap.Int("symbols", len(symbols)))
		}
		time.Sleep(f.PageDelay)
	}

	symbols = ticker.Dedupe(symbols)
	if len(symbols) > MinAccept {
		f.logger.Info("finviz: accepted", zap.Int("symbols", len(symbols)))
		return symbols, nil
	}
	f.logger.Warn("finviz: yield below threshold", zap.Int("symbols", len(symbols)))
	return nil, nil
}

// totalRows scans table and container text for the "<n> stocks" hint.
func (f *Finviz) totalRows(doc *goquery.Document) int {
	total := finvizDefaultTotal
	doc.Find("td, div, span").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		m := totalStocksRe.FindStringSubmatch(el.Text())
		if m == nil {
			return true
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			return true
		}
		total = n
		return false
	})
	return total
}

func (f *Finviz) fetchPage(rowStart int) ([]string, error) {
	body, err := f.client.Get(f.pageURL(rowStart))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return parseScreenerPage(doc), nil
}

// parseScreenerPage extracts the symbols from one screener page. The primary
// method reads the marker-class anchors; older layouts only carry plain
// quote.ashx links, so those are the fallback.
func parseScreenerPage(doc *goquery.Document) []string {
	var symbols []string
	doc.Find("a.screener-link-primary").Each(func(_ int, a *goquery.Selection) {
		sym := strings.ToUpper(strings.TrimSpace(a.Text()))
		if ticker.Valid(sym) {
			symbols = append(symbols, sym)
		}
	})
	if len(symbols) > 0 {
		return symbols
	}

	doc.Find(`a[href*="quote.ashx?t="]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := quoteLinkRe.FindStringSubmatch(href)
		if m != nil && ticker.Valid(m[1]) {
			symbols = append(symbols, m[1])
		}
	})
	return ticker.Dedupe(symbols)
}
