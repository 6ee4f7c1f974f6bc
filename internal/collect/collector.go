package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"insider-data/internal/edgar"
	"insider-data/internal/form4"
	"insider-data/internal/model"
)

// Fetcher is the slice of the EDGAR client the collector needs.
type Fetcher interface {
	Form4Filings(ctx context.Context, cik edgar.CIK) ([]string, error)
	FilingDocument(ctx context.Context, cik edgar.CIK, accession string) ([]byte, error)
}

// Collector turns one issuer's filing index into aggregated transactions.
type Collector struct {
	Client Fetcher
	// FilingLimit caps how many filings are processed per issuer. Negative
	// means unbounded.
	FilingLimit int
	// CombineDates folds legs with different trade dates into one record
	// per (type, direction) group.
	CombineDates bool
}

// Collect lists the issuer's Form 4 filings and fetches, extracts and
// aggregates each one independently, in index order up to the filing limit.
// A filing that fails to fetch or extract is logged and skipped; a listing
// failure aborts this issuer only. Rate-budget exhaustion and context
// cancellation propagate along with whatever was collected so far.
func (c *Collector) Collect(ctx context.Context, cik edgar.CIK) ([]model.Transaction, error) {
	accessions, err := c.Client.Form4Filings(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("listing filings for CIK %s: %w", cik, err)
	}

	var out []model.Transaction
	for i, accession := range accessions {
		if c.FilingLimit >= 0 && i >= c.FilingLimit {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		raw, err := c.Client.FilingDocument(ctx, cik, accession)
		if err != nil {
			if errors.Is(err, edgar.ErrRateBudgetExhausted) || ctx.Err() != nil {
				return out, err
			}
			slog.Warn("fetching filing failed, skipping",
				"cik", cik, "accession", accession, "error", err)
			continue
		}

		_, legs, err := form4.Extract(raw, accession)
		if err != nil {
			slog.Warn("extracting filing failed, skipping",
				"cik", cik, "accession", accession, "error", err)
			continue
		}
		if len(legs) == 0 {
			slog.Debug("filing has no tradeable events", "cik", cik, "accession", accession)
			continue
		}

		out = append(out, form4.Aggregate(legs, c.CombineDates)...)
	}
	return out, nil
}
