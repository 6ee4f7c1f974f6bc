package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"insider-data/internal/model"
)

// SQLiteStore persists the dataset in an embedded sqlite database, table
// "transactions". Values are stored in their rendered text form so the
// column set matches the other adapters exactly.
type SQLiteStore struct {
	Path string
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS transactions (
	x TEXT,
	filing_date TEXT,
	trade_date TEXT,
	ticker TEXT,
	insider_name TEXT,
	title TEXT,
	trade_type TEXT,
	price TEXT,
	qty TEXT,
	value TEXT,
	fc TEXT
)`

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s *SQLiteStore) Load() ([]model.Transaction, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	defer db.Close()

	rows, err := db.Query(`SELECT x, filing_date, trade_date, ticker, insider_name,
		title, trade_type, price, qty, value, fc FROM transactions`)
	if err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	defer rows.Close()

	var records []model.Transaction
	for rows.Next() {
		row := make([]string, len(model.Columns))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		t, err := model.FromRow(row)
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	return records, nil
}

func (s *SQLiteStore) Save(records []model.Transaction, policy Policy) error {
	combined := resolve(s, s.Path, records, policy)

	db, err := s.open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.Path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO transactions (x, filing_date, trade_date,
		ticker, insider_name, title, trade_type, price, qty, value, fc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range combined {
		row := t.Row()
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
