package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIntegrity is matched by every *IntegrityError.
var ErrIntegrity = errors.New("integrity validation failed")

// Kind classifies a violation.
type Kind string

const (
	KindMissingReference Kind = "missing_reference"
	KindUnknownTable     Kind = "unknown_table"
	KindNotOneToOne      Kind = "not_one_to_one"
	KindDuplicateKey     Kind = "duplicate_key"
	KindBrokenSequence   Kind = "broken_sequence"
)

// Violation is one failed check.
type Violation struct {
	Table      string
	Column     string
	Kind       Kind
	Referenced string // "table.column" for reference checks
	Count      int    // distinct offending values, keys or groups
	Samples    []string
}

func (v Violation) String() string {
	var b strings.Builder
	b.WriteString(v.Table)
	if v.Column != "" {
		b.WriteString("." + v.Column)
	}
	switch v.Kind {
	case KindMissingReference:
		fmt.Fprintf(&b, " -> %s: %d missing value(s)", v.Referenced, v.Count)
	case KindUnknownTable:
		fmt.Fprintf(&b, " -> %s: referenced table not present", v.Referenced)
	case KindNotOneToOne:
		fmt.Fprintf(&b, " <-> %s: not one-to-one, %d key(s) unmatched or repeated", v.Referenced, v.Count)
	case KindDuplicateKey:
		fmt.Fprintf(&b, ": %d duplicate primary key(s)", v.Count)
	case KindBrokenSequence:
		fmt.Fprintf(&b, ": %d group(s) without a dense 1..n sequence", v.Count)
	default:
		fmt.Fprintf(&b, ": %s", v.Kind)
	}
	if len(v.Samples) > 0 {
		fmt.Fprintf(&b, " (%s", strings.Join(v.Samples, ", "))
		if v.Count > len(v.Samples) {
			b.WriteString(", ...")
		}
		b.WriteString(")")
	}
	return b.String()
}

// IntegrityError aggregates every violation found in one validation pass.
type IntegrityError struct {
	Violations []Violation
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d violation(s)", ErrIntegrity, len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Unwrap returns ErrIntegrity.
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
