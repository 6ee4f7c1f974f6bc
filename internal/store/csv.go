package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"insider-data/internal/model"
)

// CSVStore persists the dataset as a delimited text file with a header row.
// Used for both .csv and .txt outputs.
type CSVStore struct {
	Path string
	Sep  rune
}

func (s *CSVStore) Load() ([]model.Transaction, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.Sep
	r.FieldsPerRecord = len(model.Columns)

	// Header row; an empty file is an empty store.
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &LoadError{Path: s.Path, Err: err}
	}

	var records []model.Transaction
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		t, err := model.FromRow(row)
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		records = append(records, t)
	}
	return records, nil
}

func (s *CSVStore) Save(records []model.Transaction, policy Policy) error {
	combined := resolve(s, s.Path, records, policy)

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = s.Sep
	if err := w.Write(model.Columns); err != nil {
		return err
	}
	for _, t := range combined {
		if err := w.Write(t.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
