package store

import (
	"encoding/json"
	"fmt"
	"os"

	"insider-data/internal/model"
)

// jsonRow keeps the on-disk JSON shape stable and human-readable: dates and
// money as rendered strings, matching the other adapters.
type jsonRow struct {
	Marker      string `json:"x"`
	FilingDate  string `json:"filing_date"`
	TradeDate   string `json:"trade_date"`
	Ticker      string `json:"ticker"`
	InsiderName string `json:"insider_name"`
	Title       string `json:"title"`
	TradeType   string `json:"trade_type"`
	Price       string `json:"price"`
	Qty         string `json:"qty"`
	Value       string `json:"value"`
	Accession   string `json:"fc"`
}

// JSONStore persists the dataset as an indented JSON array.
type JSONStore struct {
	Path string
}

func (s *JSONStore) Load() ([]model.Transaction, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}

	var rows []jsonRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}

	records := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := model.FromRow([]string{
			r.Marker, r.FilingDate, r.TradeDate, r.Ticker, r.InsiderName,
			r.Title, r.TradeType, r.Price, r.Qty, r.Value, r.Accession,
		})
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		records = append(records, t)
	}
	return records, nil
}

func (s *JSONStore) Save(records []model.Transaction, policy Policy) error {
	combined := resolve(s, s.Path, records, policy)

	rows := make([]jsonRow, len(combined))
	for i, t := range combined {
		row := t.Row()
		rows[i] = jsonRow{
			Marker: row[0], FilingDate: row[1], TradeDate: row[2],
			Ticker: row[3], InsiderName: row[4], Title: row[5],
			TradeType: row[6], Price: row[7], Qty: row[8],
			Value: row[9], Accession: row[10],
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.Path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
