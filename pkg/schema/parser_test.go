package schema

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

type testOrder struct {
	Ref      string    `po:"ref,varchar(16),primaryKey"`
	Line     int       `po:"line,integer,primaryKey,seq(ref)"`
	Customer string    `po:"customer,varchar(64),notNull,fk(test_customers.id),onDelete(cascade)"`
	Placed   time.Time `po:"placed,timestamp,layout(2006-01-02)"`
	Note     *string   `po:"note"`
	Score    float64   `po:"score,derived"`
	internal string
	Skipped  string `po:"-"`
}

type testCustomer struct {
	ID string `po:"id,varchar(64),primaryKey"`
}

func (testCustomer) TableName() string { return "test_customers" }

type testScore struct {
	Customer string `po:"customer,primaryKey,fk(test_customers.id),oneToOne"`
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	table, err := parser.Parse(reflect.TypeOf(testOrder{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if table.Name != "test_order" {
		t.Errorf("expected table name 'test_order', got %s", table.Name)
	}
	if got := strings.Join(table.ColumnNames(), ","); got != "ref,line,customer,placed,note,score" {
		t.Errorf("unexpected columns %s", got)
	}

	if table.PrimaryKey == nil {
		t.Fatal("expected primary key")
	}
	if got := strings.Join(table.PrimaryKey.Columns, ","); got != "ref,line" {
		t.Errorf("expected composite key ref,line, got %s", got)
	}
	if table.PrimaryKey.Name != "test_order_pkey" {
		t.Errorf("unexpected primary key name %s", table.PrimaryKey.Name)
	}

	if len(table.ForeignKeys) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(table.ForeignKeys))
	}
	fk := table.ForeignKeys[0]
	if fk.ReferencedTable != "test_customers" || fk.ReferencedColumns[0] != "id" {
		t.Errorf("unexpected reference %s(%v)", fk.ReferencedTable, fk.ReferencedColumns)
	}
	if fk.OnDelete != Cascade {
		t.Errorf("expected ON DELETE CASCADE, got %s", fk.OnDelete)
	}
	if fk.OneToOne {
		t.Error("expected a many-to-one reference")
	}

	if len(table.Sequences) != 1 || table.Sequences[0].Column != "line" || table.Sequences[0].GroupBy[0] != "ref" {
		t.Errorf("unexpected sequences %+v", table.Sequences)
	}

	note, _ := table.Column("note")
	if !note.Nullable || note.SQLType != "text" {
		t.Errorf("expected nullable text note, got %+v", note)
	}
	placed, _ := table.Column("placed")
	if placed.Layout != "2006-01-02" {
		t.Errorf("expected layout option, got %q", placed.Layout)
	}
	score, _ := table.Column("score")
	if !score.Derived || score.SQLType != "double precision" {
		t.Errorf("expected derived double precision score, got %+v", score)
	}
	ref, _ := table.Column("ref")
	if ref.Nullable {
		t.Error("primary key columns are never nullable")
	}
}

func TestParser_TableNames(t *testing.T) {
	parser := NewParser()

	table, err := parser.Parse(reflect.TypeOf(&testCustomer{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Name != "test_customers" {
		t.Errorf("expected TableName() to win, got %s", table.Name)
	}

	type LegacyThing struct {
		ID int `po:"id,primaryKey"`
	}
	table, err = parser.Parse(reflect.TypeOf(LegacyThing{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Name != "legacy_thing" {
		t.Errorf("expected snake_case fallback, got %s", table.Name)
	}
}

func TestParser_OneToOne(t *testing.T) {
	table, err := NewParser().Parse(reflect.TypeOf(testScore{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !table.ForeignKeys[0].OneToOne {
		t.Error("expected oneToOne reference")
	}
	col, _ := table.Column("customer")
	if col.SQLType != "text" {
		t.Errorf("expected mapped text type, got %s", col.SQLType)
	}
}

func TestParser_Errors(t *testing.T) {
	type noTags struct {
		A string
	}
	type badFK struct {
		A string `po:"a,fk(nowhere)"`
	}
	type loneOneToOne struct {
		A string `po:"a,oneToOne"`
	}
	type badSeq struct {
		A int `po:"a,seq(missing)"`
	}
	type badType struct {
		A []string `po:"a"`
	}
	type badOption struct {
		A string `po:"a,varchar(12"`
	}

	tests := []struct {
		name  string
		model any
		want  string
	}{
		{"not a struct", 3, "must be a struct"},
		{"no tagged fields", noTags{}, "no po-tagged fields"},
		{"invalid reference", badFK{}, "invalid foreign key reference"},
		{"oneToOne without fk", loneOneToOne{}, "oneToOne requires fk"},
		{"sequence group", badSeq{}, "unknown column missing"},
		{"unsupported type", badType{}, "no SQL type"},
		{"unclosed option", badOption{}, "invalid option format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(reflect.TypeOf(tt.model))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		tag      string
		expected *TagOptions
		wantErr  bool
	}{
		{
			name: "simple column name",
			tag:  "id",
			expected: &TagOptions{
				Name:    "id",
				Options: map[string]string{},
			},
		},
		{
			name: "column with value option",
			tag:  "name,varchar(255)",
			expected: &TagOptions{
				Name: "name",
				Options: map[string]string{
					"varchar": "255",
				},
			},
		},
		{
			name: "nested parentheses",
			tag:  "price,numeric(10,2),default(round(0,2))",
			expected: &TagOptions{
				Name: "price",
				Options: map[string]string{
					"numeric": "10,2",
					"default": "round(0,2)",
				},
			},
		},
		{
			name: "layout with spaces",
			tag:  "at,timestamp,layout(02/01/2006 15:04:05)",
			expected: &TagOptions{
				Name: "at",
				Options: map[string]string{
					"timestamp": "",
					"layout":    "02/01/2006 15:04:05",
				},
			},
		},
		{
			name:    "empty tag",
			tag:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.parseTag(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}

func TestGetSQLType(t *testing.T) {
	tests := []struct {
		opts map[string]string
		want string
	}{
		{map[string]string{"varchar": "64"}, "varchar(64)"},
		{map[string]string{"double precision": ""}, "double precision"},
		{map[string]string{"primaryKey": ""}, ""},
	}
	for _, tt := range tests {
		if got := (&TagOptions{Options: tt.opts}).GetSQLType(); got != tt.want {
			t.Errorf("GetSQLType(%v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "user"},
		{"AbandonedItem", "abandoned_item"},
		{"WishlistItem", "wishlist_item"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.input); got != tt.expected {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
