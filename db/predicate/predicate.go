// Package predicate turns a column-to-value map into a SQL predicate.
//
// String renders literal values inline and is meant for ad-hoc queries typed by
// hand. Where renders the same kind of predicate with positional parameters and
// quoted identifiers, for statements built by code.
package predicate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/on-the-ground/toolkit_go/pure"
)

// Negate marks a column whose operator is inverted: "~status" renders as
// "status != ...", "status is not ...", "status not in ..." or "status not like ...".
const Negate = "~"

// String joins one predicate per entry of preds with andor ("AND" or "OR").
// Columns are rendered in sorted order.
//
//	collection → col in (v1, v2)
//	string     → col like 'v'
//	nil        → col is Null
//	otherwise  → col = v
func String(preds map[string]any, andor string) string {
	if andor == "" {
		andor = "AND"
	}
	cols := sortedKeys(preds)
	res := make([]string, 0, len(cols))
	for _, col := range cols {
		v := preds[col]

		var operator, value string
		switch {
		case isCollection(v):
			operator = "in"
			value = "(" + strings.Join(literals(v), ", ") + ")"
		case v == nil:
			operator = "is"
			value = "Null"
		default:
			if s, ok := v.(string); ok {
				operator = "like"
				value = quote(s)
			} else {
				operator = "="
				value = literal(v)
			}
		}

		if strings.HasPrefix(col, Negate) {
			switch operator {
			case "=":
				operator = "!="
			case "is":
				operator = "is not"
			default:
				operator = "not " + operator
			}
		}

		res = append(res, fmt.Sprintf("%s %s %s", strings.ReplaceAll(col, Negate, ""), operator, value))
	}
	return strings.Join(res, " "+andor+" ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isCollection reports whether v is a slice, an array or a set. []byte is a
// single value.
func isCollection(v any) bool {
	switch v.(type) {
	case nil, []byte, string:
		return false
	case *pure.Set, pure.FrozenSet, pure.FrozenList:
		return true
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// elems flattens any collection accepted by isCollection.
func elems(v any) []any {
	switch x := v.(type) {
	case *pure.Set:
		return x.Elems()
	case pure.FrozenSet:
		return x.Elems()
	case pure.FrozenList:
		return x.Items()
	case []any:
		return x
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Members returns the elements of v when v is a collection predicate value.
func Members(v any) ([]any, bool) {
	if !isCollection(v) {
		return nil, false
	}
	return elems(v), true
}

func literals(v any) []string {
	items := elems(v)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = literal(item)
	}
	return out
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "Null"
	case string:
		return quote(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
