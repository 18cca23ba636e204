// Package dashboard derives the display-ready expense table from the raw
// backup table: settlements out, dates and costs parsed, month columns added.
package dashboard

import (
	"strconv"
	"time"

	"github.com/mduse88/family-expenses/internal/table"
)

// Row is the narrowed, typed projection of a raw expense record. Every row
// has a successfully parsed date and cost; rows failing either parse are
// dropped during Transform, never kept with zero values.
type Row struct {
	ID           string
	Description  string
	Cost         float64
	CurrencyCode string
	Date         time.Time
	CategoryName string
	HasCategory  bool
	Month        time.Time
	MonthStr     string
}

// Result carries the transformed rows and the counts of rows removed at
// each step, for reporting.
type Result struct {
	Rows            []Row
	PaymentsDropped int
	BadDates        int
	BadCosts        int
}

// dateLayouts are tried in order when parsing the raw date column.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Transform derives the dashboard table from the raw table. Steps that
// depend on a column are skipped when no row carries that column, so a
// sparse input degrades instead of failing. Row order is preserved apart
// from the dropped rows. An empty input short-circuits to an empty result.
func Transform(raw table.Table) Result {
	var res Result
	if len(raw) == 0 {
		res.Rows = []Row{}
		return res
	}

	cols := map[string]bool{}
	for _, c := range raw.Columns() {
		cols[c] = true
	}

	res.Rows = make([]Row, 0, len(raw))
	for _, r := range raw {
		if cols["payment"] {
			if payment, ok := r.Bool("payment"); ok && payment {
				res.PaymentsDropped++
				continue
			}
		}

		row := Row{}

		if cols["date"] {
			s, _ := r.String("date")
			date, ok := parseDate(s)
			if !ok {
				res.BadDates++
				continue
			}
			row.Date = date
		}

		if cols["cost"] {
			s, _ := r.String("cost")
			cost, err := strconv.ParseFloat(s, 64)
			if err != nil {
				res.BadCosts++
				continue
			}
			row.Cost = cost
		}

		if cols["category"] {
			row.CategoryName, row.HasCategory = categoryName(r["category"])
		}

		row.ID, _ = r.String("id")
		row.Description, _ = r.String("description")
		row.CurrencyCode, _ = r.String("currency_code")

		row.Month = time.Date(row.Date.Year(), row.Date.Month(), 1, 0, 0, 0, 0, row.Date.Location())
		row.MonthStr = row.Month.Format("2006-01")

		res.Rows = append(res.Rows, row)
	}
	return res
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// categoryName extracts the category name from a category value. A wrong
// shape or absent name yields an absent category, never an error.
func categoryName(v any) (string, bool) {
	switch t := v.(type) {
	case map[string]any:
		name, ok := t["name"].(string)
		return name, ok && name != ""
	case table.Marshaler:
		return categoryName(table.Normalize(t.MarshalTree()))
	default:
		return "", false
	}
}
