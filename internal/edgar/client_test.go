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

// newTestClient points a client at srv with throttling disabled and backoff
// sleeps recorded instead of slept.
func newTestClient(srv *httptest.Server, sleeps *[]time.Duration, options ...ClientOption) *Client {
	options = append([]ClientOption{
		WithBaseURLs(srv.URL, srv.URL),
		WithMinInterval(0),
	}, options...)
	c := NewClient(options...)
	c.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return c
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	body, err := c.Get(context.Background(), srv.URL+"/thing")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 3, calls)
	require.Len(t, sleeps, 2, "two failures, two backoff sleeps")
	assert.Equal(t, 1*time.Second, sleeps[0])
	assert.Equal(t, 2*time.Second, sleeps[1])
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps, WithMaxRetries(2))

	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	_, err := c.Get(context.Background(), srv.URL)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestGetRateBudgetMarkerIsFatal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html>\n<head>\n<title>SEC.gov | Request Rate Threshold Exceeded</title>\n</head>\n</html>"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	_, err := c.Get(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrRateBudgetExhausted)
	assert.Equal(t, 1, calls, "rate exhaustion is never retried")
	assert.Empty(t, sleeps)
}

func TestGetMarkerOnlyCheckedInLeadingLines(t *testing.T) {
	body := make([]byte, 0, 1024)
	for i := 0; i < 20; i++ {
		body = append(body, "filler line\n"...)
	}
	body = append(body, "Request Rate Threshold Exceeded\n"...)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(srv, &sleeps)

	got, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err, "marker past the leading lines is ordinary content")
	assert.Equal(t, body, got)
}

func TestRateLimiterWait(t *testing.T) {
	clock := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	var slept []time.Duration

	r := NewRateLimiter(200 * time.Millisecond)
	r.now = func() time.Time { return clock }
	r.sleep = func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	r.Wait()
	assert.Empty(t, slept, "first request never waits")

	clock = clock.Add(50 * time.Millisecond)
	r.Wait()
	require.Len(t, slept, 1)
	assert.Equal(t, 150*time.Millisecond, slept[0])

	clock = clock.Add(300 * time.Millisecond)
	r.Wait()
	assert.Len(t, slept, 1, "no wait once the interval has elapsed")
}
