// Package export writes the raw backup table to a CSV file, the artifact
// that gets uploaded to the cloud backup destination.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mduse88/family-expenses/internal/table"
)

// WriteRawCSV writes the raw table to path, one column per key in the
// union of keys across rows, sorted for a stable layout. Nested values are
// encoded as JSON so nothing in the open-ended field set is lost.
func WriteRawCSV(path string, rows table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := rows.Columns()
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for i, row := range rows {
		for j, col := range cols {
			cell, err := renderCell(row[col])
			if err != nil {
				return fmt.Errorf("render row %d column %s: %w", i, col, err)
			}
			record[j] = cell
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func renderCell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}
