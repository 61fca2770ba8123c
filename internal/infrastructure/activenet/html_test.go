package activenet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	pageWithResults = `<html><body><div class="card-section-actual"><div class="resource-card">Bell Arena 18:00</div></div></body></html>`
	pageNoResults   = `<html><body><div class="card-section-actual"><div class="card-section-actual__empty"> No results found </div></div></body></html>`
	pageShell       = `<html><body><div id="app"></div><script src="app.js"></script></body></html>`
)

func newSearchPageServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ev := r.URL.Query().Get("eventDateAndTime")
		for date, page := range pages {
			if strings.Contains(ev, date) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(page))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTMLProber(t *testing.T) {
	srv := newSearchPageServer(t, map[string]string{
		"2025-01-06": pageWithResults,
		"2025-01-07": pageNoResults,
		"2025-01-08": pageShell,
	})
	p := NewHTMLProber(Options{SearchURL: srv.URL + "/search", Timeout: time.Second}, zap.NewNop())

	testCases := map[string]bool{
		"2025-01-06": true,
		"2025-01-07": false,
		"2025-01-08": false,
		"2025-01-09": false, // 404
	}
	for date, expected := range testCases {
		w := testWindow
		w.Date = date
		res := p.Probe(context.Background(), w)
		require.Equal(t, expected, res.Available, date)
		require.True(t, strings.HasPrefix(res.Link, srv.URL+"/search?"))
	}
}

func TestBrowserProber(t *testing.T) {
	chrome := os.Getenv("CHROME_PATH")
	if chrome == "" {
		t.Skip("CHROME_PATH not set")
	}
	srv := newSearchPageServer(t, map[string]string{
		"2025-01-06": pageWithResults,
		"2025-01-07": pageNoResults,
		"2025-01-08": pageShell,
	})
	p := NewBrowserProber(BrowserOptions{
		SearchURL:   srv.URL + "/search",
		ChromePath:  chrome,
		ElementWait: 2 * time.Second,
	}, zap.NewNop())

	for date, expected := range map[string]bool{"2025-01-06": true, "2025-01-07": false, "2025-01-08": false} {
		w := testWindow
		w.Date = date
		require.Equal(t, expected, p.Probe(context.Background(), w).Available, date)
	}
}
