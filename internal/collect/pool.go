package collect

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"insider-data/internal/edgar"
	"insider-data/internal/model"
)

// Job is one issuer to collect: the symbol as the user gave it plus its
// resolved identifier.
type Job struct {
	Symbol string
	CIK    edgar.CIK
}

// result is sent by workers for fan-in.
type result struct {
	job          Job
	transactions []model.Transaction
	err          error
}

const heartbeatInterval = 30 * time.Second

// Run fans the jobs out to a fixed-size worker pool. Every worker funnels
// its requests through the collector's shared client, so the rate limit
// holds across the pool. Per-issuer failures are recorded in the report and
// collection continues; rate-budget exhaustion cancels the remaining work
// and is returned as the fatal error. Combined transactions come back in
// job order regardless of completion order.
func Run(ctx context.Context, collector *Collector, jobs []Job, workers int) ([]model.Transaction, *Report, error) {
	report := NewReport()
	if len(jobs) == 0 {
		return nil, report, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	results := make(chan result, len(jobs))

	var mu sync.Mutex
	var done int
	bySymbol := make(map[string][]model.Transaction, len(jobs))
	var fatal error

	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for r := range results {
			mu.Lock()
			done++
			if r.err != nil {
				report.AddFailure(r.job.Symbol, r.job.CIK, r.err)
				if errors.Is(r.err, edgar.ErrRateBudgetExhausted) && fatal == nil {
					fatal = r.err
				}
			} else {
				report.AddSuccess(r.job.Symbol, len(r.transactions))
				bySymbol[r.job.Symbol] = r.transactions
			}
			mu.Unlock()
		}
	}()

	go heartbeat(ctx, len(jobs), &mu, &done)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range pending {
				if ctx.Err() != nil {
					return
				}
				slog.Info("collecting issuer", "symbol", job.Symbol, "cik", job.CIK)
				transactions, err := collector.Collect(ctx, job.CIK)
				if err != nil && errors.Is(err, edgar.ErrRateBudgetExhausted) {
					// Fatal for the whole run, stop handing out work.
					cancel()
				}
				results <- result{job: job, transactions: transactions, err: err}
			}
		}()
	}
	wg.Wait()
	close(results)
	collectWg.Wait()

	var combined []model.Transaction
	for _, j := range jobs {
		combined = append(combined, bySymbol[j.Symbol]...)
	}

	slog.Info("collection done",
		"run_id", report.RunID,
		"issuers_ok", len(report.Succeeded),
		"issuers_failed", len(report.Failed),
		"transactions", len(combined))
	return combined, report, fatal
}

func heartbeat(ctx context.Context, total int, mu *sync.Mutex, done *int) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			d := *done
			mu.Unlock()
			slog.Info("heartbeat", "done", d, "total", total)
		}
	}
}
