// Package csvio reads and writes tables as semicolon-delimited, latin-1
// encoded CSV files.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/frescopa/demogen/pkg/schema"
	"golang.org/x/text/encoding/charmap"
)

// Comma is the field delimiter of every file.
const Comma = ';'

// ColumnError is returned when a required column is absent from a header.
type ColumnError struct {
	Table  string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("table %s: missing column %q", e.Table, e.Column)
}

// ParseError locates a value that could not be decoded.
type ParseError struct {
	Table  string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table %s line %d column %s: cannot parse %q: %v", e.Table, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Header describes the columns found in a decoded file.
type Header struct {
	Columns []string
	// Unknown lists columns that do not belong to the table and were skipped.
	Unknown []string
}

// Decode reads every record of r into a []T. T must be the table's Go type.
func Decode[T any](r io.Reader, table *schema.TableMetadata) ([]T, *Header, error) {
	if reflect.TypeFor[T]() != table.GoType {
		return nil, nil, fmt.Errorf("table %s: cannot decode into %s", table.Name, reflect.TypeFor[T]())
	}

	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = Comma
	cr.ReuseRecord = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("table %s: empty file", table.Name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("table %s: failed to read header: %w", table.Name, err)
	}

	header := &Header{Columns: append([]string(nil), first...)}
	// position of each table column in the file, -1 when absent
	positions := make([]int, len(table.Columns))
	for i := range positions {
		positions[i] = -1
	}
	for pos, name := range header.Columns {
		idx := table.ColumnIndex(strings.TrimSpace(name))
		if idx < 0 {
			header.Unknown = append(header.Unknown, name)
			continue
		}
		positions[idx] = pos
	}
	for i, col := range table.Columns {
		if positions[i] < 0 && !col.Derived {
			return nil, nil, &ColumnError{Table: table.Name, Column: col.Name}
		}
	}

	var rows []T
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("table %s: failed to read line %d: %w", table.Name, line, err)
		}
		var row T
		v := reflect.ValueOf(&row).Elem()
		for i, col := range table.Columns {
			if positions[i] < 0 {
				continue
			}
			raw := record[positions[i]]
			if err := schema.ParseValue(v.FieldByIndex(col.FieldIndex), raw, col.Layout); err != nil {
				return nil, nil, &ParseError{Table: table.Name, Line: line, Column: col.Name, Value: raw, Err: err}
			}
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

// ReadFile decodes the CSV file at path.
func ReadFile[T any](path string, table *schema.TableMetadata) ([]T, *Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Decode[T](f, table)
}

// Encode writes a header and every row to w.
func Encode(w io.Writer, rows schema.Rows) error {
	enc := charmap.ISO8859_1.NewEncoder().Writer(w)
	cw := csv.NewWriter(enc)
	cw.Comma = Comma

	if err := cw.Write(rows.Table.ColumnNames()); err != nil {
		return fmt.Errorf("table %s: failed to write header: %w", rows.Table.Name, err)
	}
	for i := 0; i < rows.Len(); i++ {
		if err := cw.Write(rows.Record(i)); err != nil {
			return fmt.Errorf("table %s: failed to write row %d: %w", rows.Table.Name, i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("table %s: %w", rows.Table.Name, err)
	}
	return nil
}

// WriteFile writes rows to path through a temporary file so a failed write
// never leaves a truncated table behind.
func WriteFile(path string, rows schema.Rows) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, rows); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
