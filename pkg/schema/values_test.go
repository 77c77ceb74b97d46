package schema

import (
	"reflect"
	"testing"
	"time"
)

type testLine struct {
	Order  string    `po:"order,varchar(8),primaryKey"`
	Line   int       `po:"line,integer,primaryKey"`
	At     time.Time `po:"at,timestamp"`
	Active bool      `po:"active,boolean"`
	Price  float64   `po:"price"`
	Note   *string   `po:"note"`
}

func TestFormatValue(t *testing.T) {
	note := "gift"
	at := time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC)
	tests := []struct {
		name   string
		value  any
		layout string
		want   string
	}{
		{"string", "Crème", "", "Crème"},
		{"true", true, "", "True"},
		{"false", false, "", "False"},
		{"int", 42, "", "42"},
		{"float", 4.5, "", "4.5"},
		{"default time layout", at, "", "09/03/2025 14:05"},
		{"explicit layout", at, "2006-01-02", "2025-03-09"},
		{"zero time", time.Time{}, "", ""},
		{"pointer", &note, "", "gift"},
		{"nil pointer", (*string)(nil), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(reflect.ValueOf(tt.value), tt.layout); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	var line testLine
	v := reflect.ValueOf(&line).Elem()

	for _, f := range []struct {
		field, text, layout string
	}{
		{"Order", "ORD1", ""},
		{"Line", "3.0", ""},
		{"At", "09/03/2025 14:05", ""},
		{"Active", "True", ""},
		{"Price", " 0.65 ", ""},
		{"Note", "gift", ""},
	} {
		if err := ParseValue(v.FieldByName(f.field), f.text, f.layout); err != nil {
			t.Fatalf("ParseValue(%s, %q): %v", f.field, f.text, err)
		}
	}

	if line.Line != 3 {
		t.Errorf("expected integral float to parse, got %d", line.Line)
	}
	if !line.Active {
		t.Error("expected True to parse as true")
	}
	if line.Price != 0.65 {
		t.Errorf("expected 0.65, got %v", line.Price)
	}
	if want := time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC); !line.At.Equal(want) {
		t.Errorf("expected %v, got %v", want, line.At)
	}
	if line.Note == nil || *line.Note != "gift" {
		t.Errorf("expected note pointer, got %v", line.Note)
	}

	if err := ParseValue(v.FieldByName("Note"), "", ""); err != nil || line.Note != nil {
		t.Errorf("expected empty text to clear the pointer, got %v (%v)", line.Note, err)
	}
	if err := ParseValue(v.FieldByName("Line"), "3.5", ""); err == nil {
		t.Error("expected fractional integer to fail")
	}
	if err := ParseValue(v.FieldByName("Active"), "maybe", ""); err == nil {
		t.Error("expected invalid bool to fail")
	}
}

func TestNativeValue(t *testing.T) {
	type category int
	at := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	if got := NativeValue(reflect.ValueOf(category(2))); got != int64(2) {
		t.Errorf("expected named int to unwrap to int64, got %T %v", got, got)
	}
	if got := NativeValue(reflect.ValueOf(time.Time{})); got != nil {
		t.Errorf("expected zero time to be nil, got %v", got)
	}
	if got := NativeValue(reflect.ValueOf(at)); got != at {
		t.Errorf("expected time to pass through, got %v", got)
	}
	if got := NativeValue(reflect.ValueOf((*string)(nil))); got != nil {
		t.Errorf("expected nil pointer to be nil, got %v", got)
	}
}

func TestRows(t *testing.T) {
	table, err := NewParser().Parse(reflect.TypeOf(testLine{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := NewRows(table, testLine{}); err == nil {
		t.Error("expected a non-slice to fail")
	}
	if _, err := NewRows(table, []testOrder{}); err == nil {
		t.Error("expected a slice of another type to fail")
	}

	rows, err := NewRows(table, []testLine{
		{Order: "A", Line: 1, Price: 2.5},
		{Order: "A", Line: 2, Active: true},
	})
	if err != nil {
		t.Fatalf("NewRows failed: %v", err)
	}
	if rows.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", rows.Len())
	}
	if got := rows.Record(0); !reflect.DeepEqual(got, []string{"A", "1", "", "False", "2.5", ""}) {
		t.Errorf("unexpected record %q", got)
	}

	idx, err := rows.Indexes([]string{"order", "line"})
	if err != nil {
		t.Fatalf("Indexes failed: %v", err)
	}
	if got := rows.Key(1, idx); got != "A|2" {
		t.Errorf("expected composite key A|2, got %s", got)
	}
	if _, err := rows.Indexes([]string{"missing"}); err == nil {
		t.Error("expected unknown column to fail")
	}
	if got := rows.Native(1, 3); got != true {
		t.Errorf("expected native bool, got %v", got)
	}

	if (Rows{}).Len() != 0 {
		t.Error("expected zero Rows to be empty")
	}
}
