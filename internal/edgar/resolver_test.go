package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerDirectoryJSON = `{
  "0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
  "1": {"cik_str": 789019, "ticker": "MSFT", "title": "Microsoft Corp"}
}`

func TestResolveTickers(t *testing.T) {
	var directoryFetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files/company_tickers.json", r.URL.Path)
		directoryFetches++
		w.Write([]byte(tickerDirectoryJSON))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	got, err := c.ResolveTickers(context.Background(), []string{"aapl", "MSFT", "320193", "NOPE", ""})
	require.NoError(t, err)

	assert.Equal(t, map[string]CIK{
		"aapl":   "0000320193",
		"MSFT":   "0000789019",
		"320193": "0000320193",
	}, got)
	assert.Equal(t, 1, directoryFetches, "directory fetched once per invocation")
}

func TestResolveTickersNumericOnlySkipsDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no fetch expected for numeric identifiers")
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	got, err := c.ResolveTickers(context.Background(), []string{"1318605"})
	require.NoError(t, err)
	assert.Equal(t, CIK("0001318605"), got["1318605"])
}

func TestResolveTickersDirectoryFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	_, err := c.ResolveTickers(context.Background(), []string{"AAPL"})
	require.Error(t, err)
}

func TestPadCIK(t *testing.T) {
	assert.Equal(t, CIK("0000320193"), PadCIK("320193"))
	assert.Equal(t, CIK("1234567890"), PadCIK("1234567890"))
}
