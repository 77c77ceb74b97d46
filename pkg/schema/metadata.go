// Package schema derives table metadata from struct tags.
//
// A table is a Go struct whose exported fields carry a `po:"..."` tag:
//
//	type Purchase struct {
//	    OrderRef  string `po:"orderref,varchar(16),primaryKey"`
//	    OrderLine int    `po:"orderline,integer,primaryKey,seq(orderref)"`
//	    Customer  string `po:"customer,varchar(64),notNull,fk(recipients.crmid)"`
//	}
//
// The same metadata drives CSV headers, integrity validation and DDL.
package schema

import "reflect"

// TableMetadata describes one table.
type TableMetadata struct {
	Name        string
	GoType      reflect.Type
	Columns     []ColumnMetadata
	PrimaryKey  *PrimaryKeyMetadata
	ForeignKeys []ForeignKeyMetadata
	Sequences   []SequenceMetadata
}

// ColumnMetadata describes one column and the struct field backing it.
type ColumnMetadata struct {
	Name       string
	GoField    string
	GoType     reflect.Type
	FieldIndex []int
	Position   int
	SQLType    string
	Nullable   bool
	Default    *string
	Unique     bool
	// Layout is the time layout used for text encoding of time.Time columns.
	Layout string
	// Derived columns are computed by the generator and may be absent from
	// seed files.
	Derived bool
}

// PrimaryKeyMetadata describes a (possibly composite) primary key.
type PrimaryKeyMetadata struct {
	Name    string
	Columns []string
}

// ReferenceAction is the ON DELETE / ON UPDATE action of a foreign key.
type ReferenceAction string

const (
	NoAction   ReferenceAction = "NO ACTION"
	Cascade    ReferenceAction = "CASCADE"
	Restrict   ReferenceAction = "RESTRICT"
	SetNull    ReferenceAction = "SET NULL"
	SetDefault ReferenceAction = "SET DEFAULT"
)

// ForeignKeyMetadata describes a reference from this table to another.
type ForeignKeyMetadata struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          ReferenceAction
	OnUpdate          ReferenceAction
	// OneToOne requires the referencing values to cover the referenced keys
	// exactly, once each.
	OneToOne bool
}

// SequenceMetadata declares that Column holds line numbers that run 1..n
// without gaps inside every group of rows sharing the GroupBy values.
type SequenceMetadata struct {
	Column  string
	GroupBy []string
}

// Column returns the column with the given name.
func (t *TableMetadata) Column(name string) (*ColumnMetadata, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnIndex returns the position of the named column, or -1.
func (t *TableMetadata) ColumnIndex(name string) int {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in declaration order.
func (t *TableMetadata) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// References returns the names of the tables this table points at.
func (t *TableMetadata) References() []string {
	var refs []string
	for _, fk := range t.ForeignKeys {
		refs = append(refs, fk.ReferencedTable)
	}
	return refs
}
