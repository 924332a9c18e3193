package scrape

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testSymbol produces distinct valid three-letter symbols.
func testSymbol(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string([]byte{
		letters[i/(26*26)%26],
		letters[i/26%26],
		letters[i%26],
	})
}

func nextDataPage(n int, mangle bool) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"s": "%s", "name": "Test Corp %d"}`, testSymbol(i), i)
	}
	payload := `{"props": {"pageProps": {"stocks": [` + strings.Join(rows, ",") + `]}}}`
	if mangle {
		// Trailing comma, as truncation repair bait.
		payload = strings.Replace(payload, `]}}}`, `,]}}}`, 1)
	}
	return `<html><body><div id="app"></div>` +
		`<script id="__NEXT_DATA__" type="application/json">` + payload + `</script>` +
		`</body></html>`
}

func anchorPage(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<tr><td><a href="/stocks/%s/">%s</a></td></tr>`,
			strings.ToLower(testSymbol(i)), testSymbol(i))
	}
	b.WriteString(`</table><a href="/etf/spy/">SPY</a></body></html>`)
	return b.String()
}

func newTestStockAnalysis(url string) *StockAnalysis {
	s := NewStockAnalysis(zap.NewNop())
	s.URL = url
	return s
}

func TestStockAnalysis_EmbeddedJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		fmt.Fprint(w, nextDataPage(600, false))
	}))
	defer server.Close()

	got, err := newTestStockAnalysis(server.URL).Fetch()
	require.NoError(t, err)
	assert.Len(t, got, 600)
	assert.Contains(t, got, "AAA")
}

func TestStockAnalysis_RepairsMangledJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, nextDataPage(600, true))
	}))
	defer server.Close()

	got, err := newTestStockAnalysis(server.URL).Fetch()
	require.NoError(t, err)
	assert.Len(t, got, 600)
}

func TestStockAnalysis_AnchorFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, anchorPage(600))
	}))
	defer server.Close()

	got, err := newTestStockAnalysis(server.URL).Fetch()
	require.NoError(t, err)
	// SPY is outside the /stocks/ path pattern and must not be collected.
	assert.Len(t, got, 600)
	assert.NotContains(t, got, "SPY")
}

func TestStockAnalysis_BelowThresholdDiscarded(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Both paths yield symbols, just not enough of them.
		fmt.Fprint(w, nextDataPage(50, false)+anchorPage(50))
	}))
	defer server.Close()

	got, err := newTestStockAnalysis(server.URL).Fetch()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStockAnalysis_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	got, err := newTestStockAnalysis(server.URL).Fetch()
	assert.Error(t, err)
	assert.Empty(t, got)
}
