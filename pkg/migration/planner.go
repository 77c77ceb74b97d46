package migration

import (
	"fmt"
	"strings"

	"github.com/frescopa/demogen/pkg/schema"
)

// quoteIdent quotes a PostgreSQL identifier. Several columns are camelCase
// and would otherwise be folded to lower case.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// PlannerOptions configures DDL generation.
type PlannerOptions struct {
	// IfNotExists adds IF NOT EXISTS to CREATE TABLE and CREATE INDEX.
	IfNotExists bool
	// IndexForeignKeys creates an index on every foreign key column that
	// does not lead the primary key.
	IndexForeignKeys bool
}

// Planner generates DDL from table metadata.
type Planner struct {
	options PlannerOptions
}

// NewPlanner creates a planner with IF NOT EXISTS and foreign key indexes.
func NewPlanner() *Planner {
	return &Planner{
		options: PlannerOptions{
			IfNotExists:      true,
			IndexForeignKeys: true,
		},
	}
}

// NewPlannerWithOptions creates a planner with custom options.
func NewPlannerWithOptions(opts PlannerOptions) *Planner {
	return &Planner{options: opts}
}

// Plan sorts tables by dependency and generates their DDL.
func (p *Planner) Plan(tables []*schema.TableMetadata) (*Plan, error) {
	sorted, err := SortTables(tables)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Tables: sorted}
	for _, t := range sorted {
		plan.Up = append(plan.Up, p.generateCreateTable(t))
		plan.Up = append(plan.Up, p.generateIndexes(t)...)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		plan.Down = append(plan.Down, p.generateDropTable(sorted[i].Name))
	}
	return plan, nil
}

// generateCreateTable generates a CREATE TABLE statement.
func (p *Planner) generateCreateTable(table *schema.TableMetadata) string {
	var parts []string

	// Single-column primary keys are declared inline
	var singlePKColumn string
	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) == 1 {
		singlePKColumn = table.PrimaryKey.Columns[0]
	}

	for _, col := range table.Columns {
		colDef := p.generateColumnDefinition(col)
		if col.Name == singlePKColumn {
			colDef += " PRIMARY KEY"
		}
		parts = append(parts, "    "+colDef)
	}

	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) > 1 {
		parts = append(parts, fmt.Sprintf("    CONSTRAINT %s PRIMARY KEY (%s)",
			quoteIdent(table.PrimaryKey.Name), quoteIdents(table.PrimaryKey.Columns)))
	}

	for _, fk := range table.ForeignKeys {
		parts = append(parts, "    "+p.generateForeignKeyDefinition(fk))
	}

	createClause := "CREATE TABLE"
	if p.options.IfNotExists {
		createClause = "CREATE TABLE IF NOT EXISTS"
	}
	return fmt.Sprintf("%s %s (\n%s\n);", createClause, quoteIdent(table.Name), strings.Join(parts, ",\n"))
}

// generateColumnDefinition generates a column definition.
func (p *Planner) generateColumnDefinition(col schema.ColumnMetadata) string {
	parts := []string{quoteIdent(col.Name), col.SQLType}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT", *col.Default)
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

// generateForeignKeyDefinition generates a foreign key constraint.
func (p *Planner) generateForeignKeyDefinition(fk schema.ForeignKeyMetadata) string {
	parts := []string{
		fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s)", quoteIdent(fk.Name), quoteIdents(fk.Columns)),
		fmt.Sprintf("REFERENCES %s (%s)", quoteIdent(fk.ReferencedTable), quoteIdents(fk.ReferencedColumns)),
	}

	if fk.OnDelete != schema.NoAction && fk.OnDelete != "" {
		parts = append(parts, "ON DELETE "+string(fk.OnDelete))
	}
	if fk.OnUpdate != schema.NoAction && fk.OnUpdate != "" {
		parts = append(parts, "ON UPDATE "+string(fk.OnUpdate))
	}

	return strings.Join(parts, " ")
}

// generateIndexes indexes foreign key columns the primary key does not
// already cover.
func (p *Planner) generateIndexes(table *schema.TableMetadata) []string {
	if !p.options.IndexForeignKeys {
		return nil
	}
	var stmts []string
	for _, fk := range table.ForeignKeys {
		if table.PrimaryKey != nil && table.PrimaryKey.Columns[0] == fk.Columns[0] {
			continue
		}
		name := fmt.Sprintf("idx_%s_%s", table.Name, strings.Join(fk.Columns, "_"))
		clause := "CREATE INDEX"
		if p.options.IfNotExists {
			clause = "CREATE INDEX IF NOT EXISTS"
		}
		stmts = append(stmts, fmt.Sprintf("%s %s ON %s (%s);",
			clause, quoteIdent(name), quoteIdent(table.Name), quoteIdents(fk.Columns)))
	}
	return stmts
}

// generateDropTable generates a DROP TABLE statement.
func (p *Planner) generateDropTable(tableName string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", quoteIdent(tableName))
}
