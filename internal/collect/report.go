package collect

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"insider-data/internal/edgar"
)

// Report summarizes one collection run: which issuers completed and which
// failed, with enough context to locate the cause.
type Report struct {
	RunID     string         `json:"run_id"`
	Succeeded []SuccessEntry `json:"succeeded"`
	Failed    []FailedEntry  `json:"failed"`
}

type SuccessEntry struct {
	Symbol       string `json:"symbol"`
	Transactions int    `json:"transactions"`
}

type FailedEntry struct {
	Symbol string `json:"symbol"`
	CIK    string `json:"cik"`
	Reason string `json:"reason"`
}

func NewReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

func (r *Report) AddSuccess(symbol string, transactions int) {
	r.Succeeded = append(r.Succeeded, SuccessEntry{Symbol: symbol, Transactions: transactions})
}

func (r *Report) AddFailure(symbol string, cik edgar.CIK, err error) {
	r.Failed = append(r.Failed, FailedEntry{Symbol: symbol, CIK: string(cik), Reason: err.Error()})
}

// Write persists the run report next to the output dataset as
// .lastrun.success.json and .lastrun.failed.json.
func (r *Report) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if len(r.Succeeded) > 0 {
		if err := writeJSON(filepath.Join(dir, ".lastrun.success.json"), r.Succeeded); err != nil {
			return err
		}
	}
	if len(r.Failed) > 0 {
		if err := writeJSON(filepath.Join(dir, ".lastrun.failed.json"), r.Failed); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
