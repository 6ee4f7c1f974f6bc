package store

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"insider-data/internal/model"
)

const xlsxSheet = "transactions"

// XLSXStore persists the dataset as an Excel workbook with a single
// "transactions" sheet.
type XLSXStore struct {
	Path string
}

func (s *XLSXStore) Load() ([]model.Transaction, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, &LoadError{Path: s.Path, Err: err}
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]model.Transaction, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// Excel drops trailing empty cells; restore the fixed width.
		for len(row) < len(model.Columns) {
			row = append(row, "")
		}
		t, err := model.FromRow(row[:len(model.Columns)])
		if err != nil {
			return nil, &LoadError{Path: s.Path, Err: err}
		}
		records = append(records, t)
	}
	return records, nil
}

func (s *XLSXStore) Save(records []model.Transaction, policy Policy) error {
	combined := resolve(s, s.Path, records, policy)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(model.Columns))
	for i, c := range model.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}
	for i, t := range combined {
		row := t.Row()
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("saving %s: %w", s.Path, err)
	}
	return nil
}
