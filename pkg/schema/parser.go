package schema

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	// StructTagKey is the key used in struct tags (e.g., `po:"..."`).
	StructTagKey = "po"
)

// Tabler is implemented by models that name their own table.
type Tabler interface {
	TableName() string
}

// Parser parses struct definitions to extract table metadata.
type Parser struct {
	typeMapper *TypeMapper
	cache      map[reflect.Type]*TableMetadata
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		typeMapper: DefaultTypeMapper,
		cache:      make(map[reflect.Type]*TableMetadata),
	}
}

// Parse extracts TableMetadata from a Go struct type.
func (p *Parser) Parse(modelType reflect.Type) (*TableMetadata, error) {
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}
	if cached, ok := p.cache[modelType]; ok {
		return cached, nil
	}
	table := &TableMetadata{
		Name:        p.extractTableName(modelType),
		GoType:      modelType,
		Columns:     make([]ColumnMetadata, 0),
		ForeignKeys: make([]ForeignKeyMetadata, 0),
	}
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagValue := field.Tag.Get(StructTagKey)
		if tagValue == "" || tagValue == "-" {
			continue
		}
		tagOpts, err := p.parseTag(tagValue)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tag for field %s: %w", field.Name, err)
		}
		column := p.createColumnMetadata(field, tagOpts, len(table.Columns))
		if column.SQLType == "" {
			return nil, fmt.Errorf("field %s: no SQL type for Go type %s", field.Name, field.Type)
		}
		if tagOpts.Has("primaryKey") {
			if table.PrimaryKey == nil {
				table.PrimaryKey = &PrimaryKeyMetadata{
					Columns: []string{column.Name},
					Name:    table.Name + "_pkey",
				}
			} else {
				table.PrimaryKey.Columns = append(table.PrimaryKey.Columns, column.Name)
			}
		}
		if fkStr := tagOpts.Get("fk"); fkStr != "" {
			fk, err := parseForeignKey(table.Name, column.Name, fkStr, tagOpts)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			table.ForeignKeys = append(table.ForeignKeys, fk)
		} else if tagOpts.Has("oneToOne") {
			return nil, fmt.Errorf("field %s: oneToOne requires fk", field.Name)
		}
		if tagOpts.Has("seq") {
			group := tagOpts.Get("seq")
			seq := SequenceMetadata{Column: column.Name}
			if group != "" {
				seq.GroupBy = strings.Split(group, "+")
			}
			table.Sequences = append(table.Sequences, seq)
		}
		table.Columns = append(table.Columns, column)
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("model %s has no %s-tagged fields", modelType.Name(), StructTagKey)
	}
	for _, seq := range table.Sequences {
		for _, g := range seq.GroupBy {
			if table.ColumnIndex(g) < 0 {
				return nil, fmt.Errorf("sequence %s groups by unknown column %s", seq.Column, g)
			}
		}
	}
	p.cache[modelType] = table
	return table, nil
}

// extractTableName extracts the table name from struct type.
// Priority order:
// 1. TableName() method on the model
// 2. snake_case conversion (default fallback)
func (p *Parser) extractTableName(modelType reflect.Type) string {
	if tabler, ok := reflect.New(modelType).Elem().Interface().(Tabler); ok {
		return tabler.TableName()
	}
	return toSnakeCase(modelType.Name())
}

// createColumnMetadata creates a ColumnMetadata from a struct field.
func (p *Parser) createColumnMetadata(field reflect.StructField, opts *TagOptions, position int) ColumnMetadata {
	column := ColumnMetadata{
		Name:       opts.Name,
		GoField:    field.Name,
		GoType:     field.Type,
		FieldIndex: field.Index,
		Position:   position,
		Layout:     opts.Get("layout"),
	}
	if sqlType := opts.GetSQLType(); sqlType != "" {
		column.SQLType = sqlType
	} else {
		column.SQLType = p.typeMapper.GoTypeToPostgreSQL(field.Type)
	}
	column.Nullable = !opts.Has("notNull") && !opts.Has("primaryKey")
	if IsNullable(field.Type) {
		column.Nullable = true
	}
	if defaultVal := opts.Get("default"); defaultVal != "" {
		column.Default = &defaultVal
	}
	column.Unique = opts.Has("unique")
	column.Derived = opts.Has("derived")
	if column.Layout == "" && isTime(field.Type) {
		column.Layout = DefaultTimeLayout
	}
	return column
}

// TagOptions represents parsed tag options.
type TagOptions struct {
	Name    string            // Column name (first element)
	Options map[string]string // Other options
}

// parseTag parses a struct tag value into TagOptions.
// Format: "column_name,option1,option2(value),option3"
func (p *Parser) parseTag(tag string) (*TagOptions, error) {
	parts := splitTag(tag)
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("empty tag value")
	}
	opts := &TagOptions{
		Name:    parts[0],
		Options: make(map[string]string),
	}
	for i := 1; i < len(parts); i++ {
		opt := parts[i]
		if idx := strings.Index(opt, "("); idx != -1 {
			if !strings.HasSuffix(opt, ")") {
				return nil, fmt.Errorf("invalid option format: %s", opt)
			}
			opts.Options[opt[:idx]] = opt[idx+1 : len(opt)-1]
		} else {
			opts.Options[opt] = ""
		}
	}
	return opts, nil
}

// Has checks if an option exists.
func (t *TagOptions) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Get returns the value of an option.
func (t *TagOptions) Get(key string) string {
	return t.Options[key]
}

// GetSQLType returns the SQL type from tag options.
func (t *TagOptions) GetSQLType() string {
	pgTypes := []string{
		"varchar", "text", "char",
		"smallint", "integer", "bigint",
		"numeric", "decimal", "real", "double precision",
		"boolean",
		"date", "timestamp", "timestamptz",
	}
	for _, pgType := range pgTypes {
		if t.Has(pgType) {
			if value := t.Get(pgType); value != "" {
				return fmt.Sprintf("%s(%s)", pgType, value)
			}
			return pgType
		}
	}
	return ""
}

// splitTag splits a tag value by commas, handling nested parentheses.
func splitTag(tag string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range tag {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// toSnakeCase converts a string from PascalCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(ch)
	}
	return strings.ToLower(result.String())
}

// parseForeignKey parses "table.column" or "table(column)".
func parseForeignKey(tableName, columnName, ref string, opts *TagOptions) (ForeignKeyMetadata, error) {
	var refTable, refColumn string
	if strings.Contains(ref, ".") {
		parts := strings.SplitN(ref, ".", 2)
		refTable, refColumn = parts[0], parts[1]
	} else if idx := strings.Index(ref, "("); idx > 0 && strings.HasSuffix(ref, ")") {
		refTable, refColumn = ref[:idx], ref[idx+1:len(ref)-1]
	}
	if refTable == "" || refColumn == "" {
		return ForeignKeyMetadata{}, fmt.Errorf("invalid foreign key reference %q", ref)
	}
	return ForeignKeyMetadata{
		Name:              fmt.Sprintf("fk_%s_%s_%s", tableName, columnName, refTable),
		Columns:           []string{columnName},
		ReferencedTable:   refTable,
		ReferencedColumns: []string{refColumn},
		OnDelete:          parseReferenceAction(opts.Get("onDelete")),
		OnUpdate:          parseReferenceAction(opts.Get("onUpdate")),
		OneToOne:          opts.Has("oneToOne"),
	}, nil
}

// parseReferenceAction converts a string to ReferenceAction.
func parseReferenceAction(action string) ReferenceAction {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "CASCADE":
		return Cascade
	case "RESTRICT":
		return Restrict
	case "SETNULL", "SET NULL":
		return SetNull
	case "SETDEFAULT", "SET DEFAULT":
		return SetDefault
	default:
		return NoAction
	}
}
