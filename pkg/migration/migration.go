// Package migration turns table metadata into PostgreSQL DDL and applies it
// together with a bulk load of the generated rows.
package migration

import (
	"fmt"
	"strings"

	"github.com/frescopa/demogen/pkg/schema"
)

// Plan is the ordered DDL for a set of tables.
type Plan struct {
	// Tables are sorted parents first.
	Tables []*schema.TableMetadata
	// Up creates the tables and their indexes.
	Up []string
	// Down drops the tables, children first.
	Down []string
}

// UpSQL renders the up statements as one script.
func (p *Plan) UpSQL() string {
	return joinStatements(p.Up)
}

// DownSQL renders the down statements as one script.
func (p *Plan) DownSQL() string {
	return joinStatements(p.Down)
}

// TableNames returns the table names in creation order.
func (p *Plan) TableNames() []string {
	names := make([]string, len(p.Tables))
	for i, t := range p.Tables {
		names[i] = t.Name
	}
	return names
}

func joinStatements(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, "\n\n") + "\n"
}

// SortTables orders tables so every table comes after the tables it
// references. Ties keep the input order. Self references are allowed.
func SortTables(tables []*schema.TableMetadata) ([]*schema.TableMetadata, error) {
	byName := make(map[string]*schema.TableMetadata, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(tables))
	sorted := make([]*schema.TableMetadata, 0, len(tables))

	var visit func(t *schema.TableMetadata, path []string) error
	visit = func(t *schema.TableMetadata, path []string) error {
		switch state[t.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("foreign key cycle: %s -> %s", strings.Join(path, " -> "), t.Name)
		}
		state[t.Name] = visiting
		for _, ref := range t.References() {
			if ref == t.Name {
				continue
			}
			parent, ok := byName[ref]
			if !ok {
				return fmt.Errorf("table %s references unknown table %s", t.Name, ref)
			}
			if err := visit(parent, append(append([]string(nil), path...), t.Name)); err != nil {
				return err
			}
		}
		state[t.Name] = done
		sorted = append(sorted, t)
		return nil
	}

	for _, t := range tables {
		if err := visit(t, nil); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
