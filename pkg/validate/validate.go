// Package validate checks the referential integrity of a set of tables
// against the constraints declared in their schema metadata.
package validate

import (
	"fmt"
	"strconv"

	"github.com/frescopa/demogen/pkg/schema"
)

// DefaultMaxSamples bounds the offending values listed per violation.
const DefaultMaxSamples = 5

// Validator runs every check and reports all violations at once.
type Validator struct {
	maxSamples int
}

// New creates a Validator listing up to DefaultMaxSamples values per
// violation.
func New() *Validator {
	return &Validator{maxSamples: DefaultMaxSamples}
}

// WithMaxSamples changes how many offending values a violation lists.
func (v *Validator) WithMaxSamples(n int) *Validator {
	v.maxSamples = n
	return v
}

// Validate returns nil, or an *IntegrityError holding every violation of:
// primary key uniqueness, foreign key subset, one-to-one coverage and dense
// line sequences.
func (v *Validator) Validate(tables []schema.Rows) error {
	byName := make(map[string]schema.Rows, len(tables))
	for _, t := range tables {
		byName[t.Table.Name] = t
	}
	keys := newKeyCache()

	var violations []Violation
	for _, rows := range tables {
		table := rows.Table
		if table.PrimaryKey != nil {
			if viol, err := v.checkPrimaryKey(rows); err != nil {
				return err
			} else if viol != nil {
				violations = append(violations, *viol)
			}
		}
		for _, fk := range table.ForeignKeys {
			parent, ok := byName[fk.ReferencedTable]
			if !ok {
				violations = append(violations, Violation{
					Table:      table.Name,
					Column:     fk.Columns[0],
					Kind:       KindUnknownTable,
					Referenced: fk.ReferencedTable,
				})
				continue
			}
			viols, err := v.checkForeignKey(rows, parent, fk, keys)
			if err != nil {
				return err
			}
			violations = append(violations, viols...)
		}
		for _, seq := range table.Sequences {
			viol, err := v.checkSequence(rows, seq)
			if err != nil {
				return err
			}
			if viol != nil {
				violations = append(violations, *viol)
			}
		}
	}

	if len(violations) > 0 {
		return &IntegrityError{Violations: violations}
	}
	return nil
}

func (v *Validator) checkPrimaryKey(rows schema.Rows) (*Violation, error) {
	cols, err := rows.Indexes(rows.Table.PrimaryKey.Columns)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int, rows.Len())
	dups := newCollector(v.maxSamples)
	for i := 0; i < rows.Len(); i++ {
		key := rows.Key(i, cols)
		seen[key]++
		if seen[key] == 2 {
			dups.add(key)
		}
	}
	if dups.count == 0 {
		return nil, nil
	}
	return &Violation{
		Table:   rows.Table.Name,
		Kind:    KindDuplicateKey,
		Count:   dups.count,
		Samples: dups.samples,
	}, nil
}

func (v *Validator) checkForeignKey(rows, parent schema.Rows, fk schema.ForeignKeyMetadata, keys *keyCache) ([]Violation, error) {
	cols, err := rows.Indexes(fk.Columns)
	if err != nil {
		return nil, err
	}
	parentKeys, err := keys.get(parent, fk.ReferencedColumns)
	if err != nil {
		return nil, err
	}
	ref := fmt.Sprintf("%s.%s", fk.ReferencedTable, fk.ReferencedColumns[0])
	column := fk.Columns[0]

	missing := newCollector(v.maxSamples)
	used := make(map[string]int, len(parentKeys.set))
	for i := 0; i < rows.Len(); i++ {
		val := rows.Key(i, cols)
		if _, ok := parentKeys.set[val]; !ok {
			if used[val] == 0 {
				missing.add(val)
			}
		}
		used[val]++
	}

	var out []Violation
	if missing.count > 0 {
		out = append(out, Violation{
			Table:      rows.Table.Name,
			Column:     column,
			Kind:       KindMissingReference,
			Referenced: ref,
			Count:      missing.count,
			Samples:    missing.samples,
		})
	}
	if fk.OneToOne {
		unmatched := newCollector(v.maxSamples)
		for _, key := range parentKeys.order {
			if used[key] != 1 {
				unmatched.add(key)
			}
		}
		if unmatched.count > 0 || missing.count > 0 {
			out = append(out, Violation{
				Table:      rows.Table.Name,
				Column:     column,
				Kind:       KindNotOneToOne,
				Referenced: ref,
				Count:      unmatched.count + missing.count,
				Samples:    unmatched.samples,
			})
		}
	}
	return out, nil
}

func (v *Validator) checkSequence(rows schema.Rows, seq schema.SequenceMetadata) (*Violation, error) {
	col := rows.Table.ColumnIndex(seq.Column)
	if col < 0 {
		return nil, fmt.Errorf("table %s has no column %s", rows.Table.Name, seq.Column)
	}
	groupCols, err := rows.Indexes(seq.GroupBy)
	if err != nil {
		return nil, err
	}

	var order []string
	lines := make(map[string][]int64)
	for i := 0; i < rows.Len(); i++ {
		group := ""
		if len(groupCols) > 0 {
			group = rows.Key(i, groupCols)
		}
		n, ok := rows.Native(i, col).(int64)
		if !ok {
			return nil, fmt.Errorf("table %s: sequence column %s is not an integer", rows.Table.Name, seq.Column)
		}
		if _, seen := lines[group]; !seen {
			order = append(order, group)
		}
		lines[group] = append(lines[group], n)
	}

	broken := newCollector(v.maxSamples)
	for _, group := range order {
		if !dense(lines[group]) {
			broken.add(group)
		}
	}
	if broken.count == 0 {
		return nil, nil
	}
	return &Violation{
		Table:   rows.Table.Name,
		Column:  seq.Column,
		Kind:    KindBrokenSequence,
		Count:   broken.count,
		Samples: broken.samples,
	}, nil
}

// dense reports whether values are exactly {1..len(values)}.
func dense(values []int64) bool {
	seen := make([]bool, len(values)+1)
	for _, n := range values {
		if n < 1 || n > int64(len(values)) || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

type keySet struct {
	set   map[string]struct{}
	order []string
}

type keyCache struct {
	sets map[string]*keySet
}

func newKeyCache() *keyCache {
	return &keyCache{sets: make(map[string]*keySet)}
}

func (c *keyCache) get(rows schema.Rows, columns []string) (*keySet, error) {
	id := rows.Table.Name + ":" + strconv.Quote(fmt.Sprint(columns))
	if ks, ok := c.sets[id]; ok {
		return ks, nil
	}
	cols, err := rows.Indexes(columns)
	if err != nil {
		return nil, err
	}
	ks := &keySet{set: make(map[string]struct{}, rows.Len())}
	for i := 0; i < rows.Len(); i++ {
		key := rows.Key(i, cols)
		if _, ok := ks.set[key]; !ok {
			ks.set[key] = struct{}{}
			ks.order = append(ks.order, key)
		}
	}
	c.sets[id] = ks
	return ks, nil
}

type collector struct {
	max     int
	count   int
	samples []string
}

func newCollector(max int) *collector {
	return &collector{max: max}
}

func (c *collector) add(v string) {
	c.count++
	if len(c.samples) < c.max {
		c.samples = append(c.samples, v)
	}
}
