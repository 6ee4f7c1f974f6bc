package store

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"insider-data/internal/model"
)

// parquetRow is the flat serialization shape for the parquet adapter.
type parquetRow struct {
	Marker      string  `parquet:"x,optional"`
	FilingDate  string  `parquet:"filing_date"`
	TradeDate   string  `parquet:"trade_date"`
	Ticker      string  `parquet:"ticker"`
	InsiderName string  `parquet:"insider_name"`
	Title       string  `parquet:"title"`
	TradeType   string  `parquet:"trade_type"`
	Price       float64 `parquet:"price"`
	Qty         int64   `parquet:"qty"`
	Value       float64 `parquet:"value"`
	Accession   string  `parquet:"fc"`
}

// ParquetStore persists the dataset as a parquet file.
type ParquetStore struct {
	Path string
}

func (s *ParquetStore) Load() ([]model.Transaction, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil
	}

	rows, err := parquet.ReadFile[parquetRow](s.Path)
	if err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}

	records := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		filingDate, err := time.Parse(model.FilingDateLayout, r.FilingDate)
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		tradeDate, err := time.Parse(model.TradeDateLayout, r.TradeDate)
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		records = append(records, model.Transaction{
			Marker:       r.Marker,
			FilingDate:   filingDate,
			TradeDate:    tradeDate,
			Ticker:       r.Ticker,
			InsiderName:  r.InsiderName,
			InsiderTitle: r.Title,
			TradeType:    r.TradeType,
			Price:        decimal.NewFromFloat(r.Price).Round(2),
			Qty:          r.Qty,
			Value:        decimal.NewFromFloat(r.Value).Round(0),
			Accession:    r.Accession,
		})
	}
	return records, nil
}

func (s *ParquetStore) Save(records []model.Transaction, policy Policy) error {
	combined := resolve(s, s.Path, records, policy)

	rows := make([]parquetRow, len(combined))
	for i, t := range combined {
		price, _ := t.Price.Float64()
		value, _ := t.Value.Float64()
		rows[i] = parquetRow{
			Marker:      t.Marker,
			FilingDate:  t.FilingDate.Format(model.FilingDateLayout),
			TradeDate:   t.TradeDate.Format(model.TradeDateLayout),
			Ticker:      t.Ticker,
			InsiderName: t.InsiderName,
			Title:       t.InsiderTitle,
			TradeType:   t.TradeType,
			Price:       price,
			Qty:         t.Qty,
			Value:       value,
			Accession:   t.Accession,
		}
	}
	if err := parquet.WriteFile(s.Path, rows); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}
