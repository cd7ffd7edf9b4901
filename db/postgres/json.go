package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/on-the-ground/toolkit_go/db/predicate"
	"github.com/on-the-ground/toolkit_go/pure"
)

func mergeFields(v, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(v)+len(extra))
	for k, val := range v {
		merged[k] = val
	}
	for k, val := range extra {
		merged[k] = val
	}
	return merged
}

func expandBlob(r map[string]any) (map[string]any, error) {
	row := map[string]any{IDColumn: r[IDColumn]}

	var doc map[string]any
	switch blob := r[JSONColumn].(type) {
	case nil:
		return row, nil
	case string:
		if err := json.Unmarshal([]byte(blob), &doc); err != nil {
			return nil, fmt.Errorf("decode %s of row %v: %w", JSONColumn, r[IDColumn], err)
		}
	case map[string]any:
		doc = blob
	default:
		return nil, fmt.Errorf("unexpected %s type %T", JSONColumn, blob)
	}

	for k, v := range Flatten(doc) {
		row[k] = v
	}
	return row, nil
}

// Flatten turns nested objects into dotted keys: {"a": {"b": 1}} becomes
// {"a.b": 1}. Arrays are kept as values.
func Flatten(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) {
	for k, v := range doc {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(out, name, nested)
			continue
		}
		out[name] = v
	}
}

// FilterRows keeps rows matching every predicate. Values are compared by
// canonical key, so 1 matches 1.0 decoded from JSON. A collection predicate
// matches any of its members and a "~" prefix negates. Predicate values and
// collection members without a canonical key match no row value.
func FilterRows(rows []map[string]any, preds map[string]any) []map[string]any {
	if len(preds) == 0 {
		return rows
	}
	matchers := make(map[string]func(any) bool, len(preds))
	for col, want := range preds {
		matchers[col] = matcher(want)
	}

	var out []map[string]any
	for _, row := range rows {
		if matchRow(row, matchers) {
			out = append(out, row)
		}
	}
	return out
}

func matchRow(row map[string]any, matchers map[string]func(any) bool) bool {
	for col, match := range matchers {
		negate := strings.HasPrefix(col, predicate.Negate)
		col = strings.TrimPrefix(col, predicate.Negate)
		got, ok := row[col]
		if !ok {
			return false
		}
		if match(got) == negate {
			return false
		}
	}
	return true
}

func matcher(want any) func(any) bool {
	if items, ok := predicate.Members(want); ok {
		set := pure.Set{}
		for _, item := range items {
			// unhashable members can never equal a row value
			_ = set.Add(item)
		}
		return func(got any) bool { return set.Has(got) }
	}
	wantKey, err := pure.KeyOf(want)
	if err != nil {
		return func(any) bool { return false }
	}
	return func(got any) bool {
		k, err := pure.KeyOf(got)
		return err == nil && k == wantKey
	}
}

// SelectColumns projects rows onto cols; no columns keeps rows as they are.
func SelectColumns(rows []map[string]any, cols []string) []map[string]any {
	if len(cols) == 0 {
		return rows
	}
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		p := make(map[string]any, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				p[c] = v
			}
		}
		out[i] = p
	}
	return out
}
