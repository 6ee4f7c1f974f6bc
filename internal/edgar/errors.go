package edgar

import (
	"errors"
	"fmt"
)

// ErrRateBudgetExhausted is returned when a response body carries the SEC
// request-rate-threshold marker. Fatal for the whole run, never retried.
var ErrRateBudgetExhausted = errors.New("sec request rate threshold exceeded")

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}
