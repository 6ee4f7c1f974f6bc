package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"insider-data/internal/model"
)

// Policy selects how Save combines newly collected records with the prior
// store contents.
type Policy string

const (
	// PolicyRewrite discards the prior contents.
	PolicyRewrite Policy = "rewrite"
	// PolicyAppend concatenates without deduplication.
	PolicyAppend Policy = "append"
	// PolicyMerge loads prior records, concatenates and drops duplicates on
	// the business key.
	PolicyMerge Policy = "merge"
)

// ParsePolicy validates a policy string.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyRewrite, PolicyAppend, PolicyMerge:
		return p, nil
	default:
		return "", fmt.Errorf("unknown save policy %q (use: rewrite, append, merge)", s)
	}
}

// Store persists aggregated insider transactions. A missing or empty prior
// store loads as an empty record set, not an error.
type Store interface {
	Load() ([]model.Transaction, error)
	Save(records []model.Transaction, policy Policy) error
}

// New returns the store implementation for path, selected by extension.
// Returns nil when the format is not supported.
func New(path, csvSep string) Store {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return &CSVStore{Path: path, Sep: sepRune(csvSep)}
	case ".xlsx":
		return &XLSXStore{Path: path}
	case ".db":
		return &SQLiteStore{Path: path}
	case ".parquet":
		return &ParquetStore{Path: path}
	case ".json":
		return &JSONStore{Path: path}
	default:
		return nil
	}
}

func sepRune(s string) rune {
	if s == "" {
		return ';'
	}
	return []rune(s)[0]
}

// LoadError reports a prior store that exists but cannot be read. Merge
// degrades it to an empty prior set rather than losing new data.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading store %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// resolve applies the policy and returns the full record set to write.
func resolve(s Store, path string, records []model.Transaction, policy Policy) []model.Transaction {
	if policy == PolicyRewrite {
		return records
	}
	existing, err := s.Load()
	if err != nil {
		slog.Warn("could not load prior store, treating as empty",
			"path", path, "policy", policy, "error", err)
		existing = nil
	}
	combined := append(existing, records...)
	if policy == PolicyMerge {
		combined = model.Dedup(combined)
	}
	return combined
}
