package activenet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAPIProber(t *testing.T, h http.HandlerFunc, timeout time.Duration) *APIProber {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIProber(Options{
		SearchURL:   testSearchURL,
		ResourceURL: srv.URL + "/rest/reservation/resource",
		Timeout:     timeout,
	}, zap.NewNop())
}

var testWindow = availability.Window{Date: "2025-01-06", Start: "17:00", End: "21:00", FacilityIDs: []int64{12, 34}}

func TestAPIProberAvailable(t *testing.T) {
	var (
		got         SearchRequest
		method      string
		contentType string
		decodeErr   error
	)
	p := newTestAPIProber(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		decodeErr = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"body":{"items":[{"availability":"Unavailable"},{"availability":"AVAILABLE"}]}}`))
	}, time.Second)

	res := p.Probe(context.Background(), testWindow)
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "application/json", contentType)
	require.NoError(t, decodeErr)
	require.True(t, res.Available)
	require.Equal(t, "2025-01-06", res.Date)
	require.Equal(t, SearchURL(testSearchURL, testWindow), res.Link)
	require.Equal(t, []int64{12, 34}, got.CenterIDs)
	require.Equal(t, []string{"2025-01-06"}, got.DateTimeLength.Dates)
}

func TestAPIProberFailClosed(t *testing.T) {
	testCases := map[string]http.HandlerFunc{
		"no items": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"body":{"items":[]}}`))
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"body":{"items":[{"availability":"available"}]}}`))
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		},
		"missing body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"headers":{}}`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"body":{"items":[{"availability":"available"}]}}`))
		},
	}
	for name, h := range testCases {
		t.Run(name, func(t *testing.T) {
			p := newTestAPIProber(t, h, 100*time.Millisecond)
			res := p.Probe(context.Background(), testWindow)
			require.False(t, res.Available)
			require.NotEmpty(t, res.Link)
		})
	}
}

func TestAPIProberUnreachable(t *testing.T) {
	p := NewAPIProber(Options{SearchURL: testSearchURL, ResourceURL: "http://127.0.0.1:1/nothing", Timeout: time.Second}, zap.NewNop())
	require.NotPanics(t, func() {
		res := p.Probe(context.Background(), testWindow)
		require.False(t, res.Available)
	})
}
