package predicate

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Builder accumulates positional arguments for one statement.
type Builder struct {
	args []any
}

// Arg records v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *Builder) Args() []any {
	return b.args
}

// Operator infers the comparison operator for v.
func Operator(v any) string {
	switch {
	case v == nil:
		return "IS"
	case isCollection(v):
		return "IN"
	}
	if s, ok := v.(string); ok && strings.Contains(s, "%") {
		return "LIKE"
	}
	return "="
}

// Where renders preds as a " WHERE ..." clause joined by AND, or returns the
// empty string when preds is empty. Values are bound through b.
func Where(b *Builder, preds map[string]any) string {
	if len(preds) == 0 {
		return ""
	}
	cols := sortedKeys(preds)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = Condition(b, col, preds[col])
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// Condition renders a single parameterized predicate.
func Condition(b *Builder, col string, v any) string {
	ident := pq.QuoteIdentifier(col)
	op := Operator(v)
	switch op {
	case "IS":
		return ident + " IS NULL"
	case "IN":
		items := elems(v)
		if len(items) == 0 {
			return ident + " IN (NULL)"
		}
		ph := make([]string, len(items))
		for i, item := range items {
			ph[i] = b.Arg(item)
		}
		return ident + " IN (" + strings.Join(ph, ", ") + ")"
	}
	return ident + " " + op + " " + b.Arg(v)
}
