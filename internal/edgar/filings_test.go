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

const submissionsJSON = `{
  "cik": "320193",
  "filings": {
    "recent": {
      "accessionNumber": ["0001-23-000001", "0001-23-000002", "0001-23-000003", "0001-23-000004"],
      "form": ["4", "10-K", "4", "8-K"]
    }
  }
}`

func TestForm4Filings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submissions/CIK0000320193.json", r.URL.Path)
		w.Write([]byte(submissionsJSON))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	got, err := c.Form4Filings(context.Background(), PadCIK("320193"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001-23-000001", "0001-23-000003"}, got,
		"only form 4 accessions, in index order")
}

func TestForm4FilingsMismatchedIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"filings":{"recent":{"accessionNumber":["a"],"form":["4","4"]}}}`))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	_, err := c.Form4Filings(context.Background(), PadCIK("1"))
	require.Error(t, err)
}

func TestFilingDocumentURL(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte("raw filing"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	body, err := c.FilingDocument(context.Background(), "0000320193", "0001-23-000456")
	require.NoError(t, err)
	assert.Equal(t, "raw filing", string(body))
	assert.Equal(t, "/Archives/edgar/data/0000320193/000123000456/0001-23-000456.txt", path)
}
