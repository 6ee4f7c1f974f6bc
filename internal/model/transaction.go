package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column layouts of the persisted dataset. Every store adapter writes and
// reads this exact set, in this order.
var Columns = []string{
	"X", "Filing Date", "Trade Date", "Ticker", "Insider Name", "Title",
	"Trade Type", "Price", "Qty", "Value", "FC",
}

const (
	FilingDateLayout = "2006-01-02 15:04:05"
	TradeDateLayout  = "2006-01-02"
)

// Transaction is one aggregated insider trade: one or more trade legs of a
// single Form 4 filing combined by economic intent. This is the unit that is
// persisted and merged across runs.
type Transaction struct {
	// Marker carries the filing-level derivative flag ("D" when the filing
	// also reports derivative transactions) plus an "M" suffix when the
	// record combines more than one trade leg.
	Marker       string
	FilingDate   time.Time
	TradeDate    time.Time
	Ticker       string
	InsiderName  string
	InsiderTitle string
	TradeType    string
	// Price is the quantity-weighted average price per share, rounded to
	// 2 decimal places.
	Price decimal.Decimal
	// Qty is the net signed share count, negative when shares were disposed.
	Qty int64
	// Value is the signed notional, rounded to whole units.
	Value decimal.Decimal
	// Accession references the source filing (the "FC" column).
	Accession string
}

// Row renders t in the persisted column order.
func (t Transaction) Row() []string {
	return []string{
		t.Marker,
		t.FilingDate.Format(FilingDateLayout),
		t.TradeDate.Format(TradeDateLayout),
		t.Ticker,
		t.InsiderName,
		t.InsiderTitle,
		t.TradeType,
		t.Price.StringFixed(2),
		strconv.FormatInt(t.Qty, 10),
		t.Value.StringFixed(0),
		t.Accession,
	}
}

// FromRow parses a persisted row back into a Transaction.
func FromRow(row []string) (Transaction, error) {
	if len(row) != len(Columns) {
		return Transaction{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}
	filingDate, err := time.Parse(FilingDateLayout, row[1])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing filing date %q: %w", row[1], err)
	}
	tradeDate, err := time.Parse(TradeDateLayout, row[2])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing trade date %q: %w", row[2], err)
	}
	price, err := decimal.NewFromString(row[7])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing price %q: %w", row[7], err)
	}
	qty, err := strconv.ParseInt(row[8], 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing qty %q: %w", row[8], err)
	}
	value, err := decimal.NewFromString(row[9])
	if err != nil {
		return Transaction{}, fmt.Errorf("parsing value %q: %w", row[9], err)
	}
	return Transaction{
		Marker:       row[0],
		FilingDate:   filingDate,
		TradeDate:    tradeDate,
		Ticker:       row[3],
		InsiderName:  row[4],
		InsiderTitle: row[5],
		TradeType:    row[6],
		Price:        price,
		Qty:          qty,
		Value:        value,
		Accession:    row[10],
	}, nil
}

// Key is the business key used to detect duplicates across merges. The
// marker, title and filing reference are deliberately excluded: re-scraping
// the same filing must produce the same key.
func (t Transaction) Key() string {
	return strings.Join([]string{
		t.FilingDate.Format(FilingDateLayout),
		t.TradeDate.Format(TradeDateLayout),
		t.Ticker,
		t.InsiderName,
		t.TradeType,
		t.Price.StringFixed(2),
		strconv.FormatInt(t.Qty, 10),
		t.Value.StringFixed(0),
	}, "\x1f")
}

// Dedup drops records whose business key was already seen, keeping the first
// occurrence and preserving input order.
func Dedup(records []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(records))
	out := make([]Transaction, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
