package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

var logger = log.New(os.Stderr, "[store] ", log.LstdFlags)

const sheetName = "Sheet1"

// WriteTable writes the flat record set as an XLSX workbook: one row per
// record, columns = union of all keys in first-seen order, missing keys as
// empty cells.
func WriteTable(rs model.RecordSet, path string) error {
	if len(rs) == 0 {
		logger.Printf("warning: no data to save to %s", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	cols := rs.ColumnOrder()
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i+1, err)
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
	}

	for rowIdx, rec := range rs {
		for colIdx, col := range cols {
			v, ok := rec.Get(col)
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell %d,%d: %w", colIdx+1, rowIdx+2, err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// cellValue converts a record value into something excelize can store.
// Nested structures become compact JSON text.
func cellValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if fl, err := t.Float64(); err == nil {
			return fl
		}
		return t.String()
	case string, bool, int, int64, float64:
		return t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// ReadTable loads a workbook previously written by WriteTable.
//
// Reload is lossy in formatting only: every value comes back as the cell's
// string form (booleans as "TRUE"/"FALSE", numbers as their decimal text)
// and cells that were empty on write come back as absent keys. The key/value
// sets are otherwise identical.
func ReadTable(path string) (model.RecordSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s is not a table: no header row", path)
	}

	headers := rows[0]
	var rs model.RecordSet
	for _, row := range rows[1:] {
		rec := model.NewRecord()
		for i, header := range headers {
			if i >= len(row) || row[i] == "" {
				continue
			}
			rec.Set(header, row[i])
		}
		rs = append(rs, rec)
	}
	return rs, nil
}
