package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayout is the text layout of time.Time columns without an
// explicit layout(...) option.
const DefaultTimeLayout = "02/01/2006 15:04"

// FormatValue renders a field value as text.
func FormatValue(v reflect.Value, layout string) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type() == reflect.TypeOf(time.Time{}) {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		if layout == "" {
			layout = DefaultTimeLayout
		}
		return t.Format(layout)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		// Capitalized like the pandas exports the campaign import expects.
		if v.Bool() {
			return "True"
		}
		return "False"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// ParseValue parses text into the settable field dst.
func ParseValue(dst reflect.Value, s string, layout string) error {
	if dst.Kind() == reflect.Ptr {
		if s == "" {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		elem := reflect.New(dst.Type().Elem())
		if err := ParseValue(elem.Elem(), s, layout); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	if dst.Type() == reflect.TypeOf(time.Time{}) {
		if s == "" {
			dst.Set(reflect.ValueOf(time.Time{}))
			return nil
		}
		if layout == "" {
			layout = DefaultTimeLayout
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, dst.Type().Bits())
		if err != nil {
			// pandas writes integral floats as "3.0"
			f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if ferr != nil || f != float64(int64(f)) {
				return err
			}
			n = int64(f)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, dst.Type().Bits())
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), dst.Type().Bits())
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", dst.Type())
	}
	return nil
}

// NativeValue unwraps named types to the builtin type a database driver
// understands. Nil pointers and zero times become nil.
func NativeValue(v reflect.Value) any {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Type() == reflect.TypeOf(time.Time{}) {
		if t := v.Interface().(time.Time); !t.IsZero() {
			return t
		}
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return v.Interface()
	}
}

// Rows is a typed slice of models viewed through its table metadata.
type Rows struct {
	Table *TableMetadata
	slice reflect.Value
}

// NewRows wraps slice, which must be a []T of the table's Go type.
func NewRows(table *TableMetadata, slice any) (Rows, error) {
	v := reflect.ValueOf(slice)
	if v.Kind() != reflect.Slice {
		return Rows{}, fmt.Errorf("table %s: rows must be a slice, got %s", table.Name, v.Kind())
	}
	if v.Type().Elem() != table.GoType {
		return Rows{}, fmt.Errorf("table %s: rows of %s, want %s", table.Name, v.Type().Elem(), table.GoType)
	}
	return Rows{Table: table, slice: v}, nil
}

// Len returns the number of rows.
func (r Rows) Len() int {
	if !r.slice.IsValid() {
		return 0
	}
	return r.slice.Len()
}

func (r Rows) field(i, col int) reflect.Value {
	return r.slice.Index(i).FieldByIndex(r.Table.Columns[col].FieldIndex)
}

// Value returns column col of row i as text.
func (r Rows) Value(i, col int) string {
	return FormatValue(r.field(i, col), r.Table.Columns[col].Layout)
}

// Native returns column col of row i as a driver value.
func (r Rows) Native(i, col int) any {
	return NativeValue(r.field(i, col))
}

// Record returns row i as text, one entry per column.
func (r Rows) Record(i int) []string {
	record := make([]string, len(r.Table.Columns))
	for col := range r.Table.Columns {
		record[col] = r.Value(i, col)
	}
	return record
}

// Key returns the text values of the named columns of row i joined by "|".
func (r Rows) Key(i int, columns []int) string {
	if len(columns) == 1 {
		return r.Value(i, columns[0])
	}
	parts := make([]string, len(columns))
	for j, col := range columns {
		parts[j] = r.Value(i, col)
	}
	return strings.Join(parts, "|")
}

// Indexes resolves column names to positions.
func (r Rows) Indexes(names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = r.Table.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("table %s has no column %s", r.Table.Name, name)
		}
	}
	return idx, nil
}
