package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/on-the-ground/toolkit_go/db/predicate"
	"github.com/on-the-ground/toolkit_go/parallel"
)

const (
	DefaultSchema = "public"
	DefaultLimit  = 99999999

	// IDColumn and JSONColumn are the columns of a JSON blob table.
	IDColumn   = "id"
	JSONColumn = "jblob"
)

var (
	ErrNoRows       = errors.New("no rows to insert")
	ErrRowWidth     = errors.New("row width does not match columns")
	ErrUpsertNoCols = errors.New("upsert requires explicit columns")
	ErrNoColumns    = errors.New("no columns to update")
	ErrTooManyCols  = errors.New("row has more values than bind parameters allowed")
)

// MaxBindParams is the largest number of $n placeholders Postgres accepts in
// one statement.
const MaxBindParams = 65535

// Statement is one query with its positional arguments.
type Statement struct {
	Query string
	Args  []any
}

// InsertStatements splits rows into INSERT statements that each stay within
// MaxBindParams placeholders.
func InsertStatements(table string, rows [][]any, opts InsertOptions) ([]Statement, error) {
	return insertStatements(table, rows, opts, MaxBindParams)
}

func insertStatements(table string, rows [][]any, opts InsertOptions, maxParams int) ([]Statement, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	width := len(rows[0])
	if len(opts.Cols) > 0 {
		width = len(opts.Cols)
	}
	if width > maxParams {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCols, width, maxParams)
	}
	batch := len(rows)
	if width > 0 {
		batch = maxParams / width
	}

	batches := parallel.Chunk(rows, batch)
	stmts := make([]Statement, len(batches))
	for i, b := range batches {
		q, args, err := InsertQuery(table, b, opts)
		if err != nil {
			return nil, err
		}
		stmts[i] = Statement{Query: q, Args: args}
	}
	return stmts, nil
}

// InsertOptions controls InsertQuery. Without Cols, values follow the table's
// column order.
type InsertOptions struct {
	Schema     string
	Cols       []string
	Returning  string
	UpsertCols []string
}

// SelectOptions controls SelectQuery and the table readers.
type SelectOptions struct {
	Schema      string
	Cols        []string
	Predicates  map[string]any
	Limit       int
	SessionVars map[string]any
}

func qualified(schema, table string) string {
	if schema == "" {
		schema = DefaultSchema
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

func identList(cols []string, template func(ident string) string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		ident := pq.QuoteIdentifier(col)
		if template != nil {
			ident = template(ident)
		}
		parts[i] = ident
	}
	return strings.Join(parts, ", ")
}

// castValue encodes map cells as JSON documents.
func castValue(v any) (any, error) {
	switch v.(type) {
	case map[string]any, map[string]string:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding json cell: %w", err)
		}
		return string(b), nil
	}
	return v, nil
}

// InsertQuery builds a multi-row INSERT, optionally upserting on UpsertCols and
// returning one column.
func InsertQuery(table string, rows [][]any, opts InsertOptions) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, ErrNoRows
	}
	width := len(rows[0])
	if len(opts.Cols) > 0 {
		width = len(opts.Cols)
	}
	if len(opts.UpsertCols) > 0 && len(opts.Cols) == 0 {
		return "", nil, ErrUpsertNoCols
	}

	b := &predicate.Builder{}
	tuples := make([]string, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return "", nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(row), width)
		}
		ph := make([]string, len(row))
		for j, v := range row {
			cast, err := castValue(v)
			if err != nil {
				return "", nil, err
			}
			ph[j] = b.Arg(cast)
		}
		tuples[i] = "(" + strings.Join(ph, ", ") + ")"
	}

	var q strings.Builder
	q.WriteString("INSERT INTO " + qualified(opts.Schema, table))
	if len(opts.Cols) > 0 {
		q.WriteString(" (" + identList(opts.Cols, nil) + ")")
	}
	q.WriteString(" VALUES " + strings.Join(tuples, ", "))

	if len(opts.UpsertCols) > 0 {
		conflict := make(map[string]struct{}, len(opts.UpsertCols))
		for _, c := range opts.UpsertCols {
			conflict[c] = struct{}{}
		}
		var rest []string
		for _, c := range opts.Cols {
			if _, ok := conflict[c]; !ok {
				rest = append(rest, c)
			}
		}
		sort.Strings(rest)

		q.WriteString(" ON CONFLICT (" + identList(opts.UpsertCols, nil) + ")")
		if len(rest) == 0 {
			q.WriteString(" DO NOTHING")
		} else {
			q.WriteString(" DO UPDATE SET " + identList(rest, func(ident string) string {
				return ident + " = EXCLUDED." + ident
			}))
		}
	}
	if opts.Returning != "" {
		q.WriteString(" RETURNING " + pq.QuoteIdentifier(opts.Returning))
	}
	return q.String(), b.Args(), nil
}

// UpdateQuery sets colValues on the rows matching preds.
func UpdateQuery(schema, table string, colValues, preds map[string]any) (string, []any, error) {
	if len(colValues) == 0 {
		return "", nil, ErrNoColumns
	}
	cols := make([]string, 0, len(colValues))
	for c := range colValues {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	b := &predicate.Builder{}
	sets := make([]string, len(cols))
	for i, c := range cols {
		cast, err := castValue(colValues[c])
		if err != nil {
			return "", nil, err
		}
		sets[i] = pq.QuoteIdentifier(c) + " = " + b.Arg(cast)
	}
	q := "UPDATE " + qualified(schema, table) + " SET " + strings.Join(sets, ", ") + predicate.Where(b, preds)
	return q, b.Args(), nil
}

// DeleteQuery deletes the rows matching preds; no predicates deletes everything.
func DeleteQuery(schema, table string, preds map[string]any) (string, []any) {
	b := &predicate.Builder{}
	q := "DELETE FROM " + qualified(schema, table) + predicate.Where(b, preds)
	return q, b.Args()
}

// SelectQuery reads up to opts.Limit rows (DefaultLimit when unset).
func SelectQuery(table string, opts SelectOptions) (string, []any) {
	cols := "*"
	if len(opts.Cols) > 0 {
		cols = identList(opts.Cols, nil)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	b := &predicate.Builder{}
	q := "SELECT " + cols + " FROM " + qualified(opts.Schema, table) + predicate.Where(b, opts.Predicates)
	q += " LIMIT " + b.Arg(limit)
	return q, b.Args()
}

// SessionStatements renders one SET statement per session variable, sorted by
// name. SET takes no parameters, so values are quoted literals.
func SessionStatements(vars map[string]any) []string {
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	stmts := make([]string, len(names))
	for i, n := range names {
		stmts[i] = "SET " + pq.QuoteIdentifier(n) + " = " + pq.QuoteLiteral(fmt.Sprint(vars[n]))
	}
	return stmts
}
