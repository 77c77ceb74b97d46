package schema

import (
	"reflect"
	"time"
)

// TypeMapper handles mapping between Go types and PostgreSQL types.
type TypeMapper struct{}

// NewTypeMapper creates a new TypeMapper instance.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{}
}

// GoTypeToPostgreSQL maps a Go type to its PostgreSQL equivalent.
// Returns empty string for types the text codec cannot carry.
func (tm *TypeMapper) GoTypeToPostgreSQL(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if isTime(t) {
		return "timestamp"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int8, reflect.Int16, reflect.Uint8:
		return "smallint"
	case reflect.Int32, reflect.Int, reflect.Uint16:
		return "integer"
	case reflect.Int64, reflect.Uint32, reflect.Uint64:
		return "bigint"
	case reflect.Float32:
		return "real"
	case reflect.Float64:
		return "double precision"
	case reflect.String:
		return "text"
	}
	return ""
}

// IsNullable checks if a Go type is nullable.
func IsNullable(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr
}

func isTime(t reflect.Type) bool {
	return t == reflect.TypeOf(time.Time{})
}

// DefaultTypeMapper is the global type mapper instance.
var DefaultTypeMapper = NewTypeMapper()
