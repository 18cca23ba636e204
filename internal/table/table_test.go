package table

import (
	"encoding/json"
	"reflect"
	"testing"
)

type fakeCategory struct {
	Name string
}

func (c fakeCategory) MarshalTree() any {
	return map[string]any{"name": c.Name}
}

type opaque struct{ n int }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "abc", "abc"},
		{"bool", true, true},
		{"number", json.Number("12.5"), json.Number("12.5")},
		{"slice", []any{"a", 1}, []any{"a", 1}},
		{
			"nested map",
			map[string]any{"category": map[string]any{"name": "Food"}},
			map[string]any{"category": map[string]any{"name": "Food"}},
		},
		{
			"marshaler",
			fakeCategory{Name: "Food"},
			map[string]any{"name": "Food"},
		},
		{
			"marshaler inside slice",
			[]any{fakeCategory{Name: "Rent"}},
			[]any{map[string]any{"name": "Rent"}},
		},
		{"fallback to string", opaque{n: 3}, "{3}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	// Deeply mixed input must come out as primitives, slices and maps only.
	in := map[string]any{
		"id":   json.Number("1"),
		"tags": []any{"a", opaque{n: 1}, map[string]any{"x": fakeCategory{Name: "y"}}},
		"cat":  fakeCategory{Name: "Food"},
		"none": nil,
	}
	var check func(v any)
	check = func(v any) {
		switch tv := v.(type) {
		case nil, string, bool, int, int32, int64, float32, float64, json.Number:
		case []any:
			for _, item := range tv {
				check(item)
			}
		case map[string]any:
			for _, item := range tv {
				check(item)
			}
		default:
			t.Fatalf("normalized tree contains unexpected type %T", v)
		}
	}
	check(Normalize(in))
}

func TestNormalizeRecord(t *testing.T) {
	row := NormalizeRecord(map[string]any{
		"id":       json.Number("42"),
		"category": fakeCategory{Name: "Food"},
	})
	want := Row{
		"id":       json.Number("42"),
		"category": map[string]any{"name": "Food"},
	}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("NormalizeRecord() = %#v, want %#v", row, want)
	}
}

func TestColumns(t *testing.T) {
	tbl := Table{
		{"b": 1, "a": 2},
		{"c": 3},
		{},
	}
	want := []string{"a", "b", "c"}
	if got := tbl.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}

	if got := (Table{}).Columns(); len(got) != 0 {
		t.Errorf("Columns() on empty table = %v, want empty", got)
	}
}

func TestRowAccessors(t *testing.T) {
	row := Row{
		"s":    "text",
		"n":    json.Number("10.0"),
		"b":    true,
		"none": nil,
		"map":  map[string]any{},
	}

	if v, ok := row.String("s"); !ok || v != "text" {
		t.Errorf(`String("s") = %q, %v`, v, ok)
	}
	if v, ok := row.String("n"); !ok || v != "10.0" {
		t.Errorf(`String("n") = %q, %v`, v, ok)
	}
	if _, ok := row.String("none"); ok {
		t.Error(`String("none") should report absent`)
	}
	if _, ok := row.String("map"); ok {
		t.Error(`String("map") should report absent`)
	}
	if _, ok := row.String("missing"); ok {
		t.Error(`String("missing") should report absent`)
	}
	if v, ok := row.Bool("b"); !ok || !v {
		t.Errorf(`Bool("b") = %v, %v`, v, ok)
	}
	if _, ok := row.Bool("s"); ok {
		t.Error(`Bool("s") should report absent`)
	}
}
