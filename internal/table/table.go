// Package table holds the loosely-typed tabular form that raw API records
// are normalized into before any filtering happens.
package table

import (
	"encoding/json"
	"fmt"
	"sort"
)

type (
	// Row is one record as a flat mapping of column name to value.
	Row map[string]any

	// Table is an ordered sequence of rows. Columns are implicit: the
	// union of keys across all rows.
	Table []Row
)

// Marshaler is implemented by domain types that know how to render
// themselves as a generic value tree of primitives, slices and maps.
type Marshaler interface {
	MarshalTree() any
}

// Normalize converts an arbitrary value into a tree built only of
// primitives, slices and string-keyed maps. It never fails: values that
// match no known shape fall back to their string representation.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int, int32, int64, float32, float64, json.Number:
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case Marshaler:
		return Normalize(t.MarshalTree())
	default:
		return fmt.Sprint(t)
	}
}

// NormalizeRecord normalizes every value of a record into a flat row.
func NormalizeRecord(record map[string]any) Row {
	row := make(Row, len(record))
	for k, v := range record {
		row[k] = Normalize(v)
	}
	return row
}

// Columns returns the sorted union of keys present across all rows.
func (t Table) Columns() []string {
	seen := map[string]struct{}{}
	for _, row := range t {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// String returns the value of a column as a string, reporting whether the
// column is present and holds a string-like value.
func (r Row) String(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// Bool returns the value of a column as a bool.
func (r Row) Bool(col string) (bool, bool) {
	v, ok := r[col]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
