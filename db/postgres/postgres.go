package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/on-the-ground/toolkit_go/shared/helper"
	"github.com/on-the-ground/toolkit_go/shared/log"
)

// Helper runs statements against a pooled Postgres connection.
type Helper struct {
	db     *sql.DB
	logger *zap.Logger
}

// Connect opens a pool for cfg and pings it, retrying up to
// cfg.ConnectAttempts times.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Helper, error) {
	cfg = cfg.withDefaults()
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxPoolSize)
	db.SetMaxIdleConns(cfg.MinPoolSize)

	h := New(db, logger)
	err = helper.Retry(cfg.ConnectAttempts, func() error {
		if err := db.PingContext(ctx); err != nil {
			h.logger.Warn("ping failed", zap.String("host", cfg.Host), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	h.logger.Info("connected", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
	return h, nil
}

// New wraps an already opened pool.
func New(db *sql.DB, logger *zap.Logger) *Helper {
	return &Helper{db: db, logger: log.OrNop(logger)}
}

func (h *Helper) Close() error {
	return h.db.Close()
}

// Execute runs a statement and returns the number of affected rows.
func (h *Helper) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	h.logger.Debug("execute", zap.String("query", query), zap.Int("args", len(args)))
	res, err := h.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("execute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	h.logger.Info("rows affected", zap.Int64("count", n))
	return n, nil
}

// Insert writes rows in batches that fit the bind parameter limit, inside one
// transaction. With opts.Returning set it returns the value of that column for
// the last inserted row, otherwise nil.
func (h *Helper) Insert(ctx context.Context, table string, rows [][]any, opts InsertOptions) (any, error) {
	stmts, err := InsertStatements(table, rows, opts)
	if err != nil {
		return nil, err
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		last  any
		count int64
	)
	for i, stmt := range stmts {
		h.logger.Debug("insert", zap.String("query", stmt.Query), zap.Int("batch", i), zap.Int("args", len(stmt.Args)))
		n, ret, err := insertBatch(ctx, tx, stmt, opts.Returning != "")
		if err != nil {
			return nil, fmt.Errorf("insert batch %d: %w", i, err)
		}
		count += n
		if ret != nil {
			last = ret
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	h.logger.Info("rows affected", zap.Int64("count", count), zap.Int("batches", len(stmts)))
	return last, nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, stmt Statement, returning bool) (int64, any, error) {
	if !returning {
		res, err := tx.ExecContext(ctx, stmt.Query, stmt.Args...)
		if err != nil {
			return 0, nil, err
		}
		n, err := res.RowsAffected()
		return n, nil, err
	}

	res, err := tx.QueryContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return 0, nil, err
	}
	defer res.Close()

	var (
		last  any
		count int64
	)
	for res.Next() {
		if err := res.Scan(&last); err != nil {
			return 0, nil, fmt.Errorf("scan returning: %w", err)
		}
		count++
	}
	return count, last, res.Err()
}

// InsertJSON stores each value, merged with extra, as one JSON blob row and
// returns the id of the last one.
func (h *Helper) InsertJSON(ctx context.Context, schema, table string, values []map[string]any, extra map[string]any) (any, error) {
	rows := make([][]any, len(values))
	for i, v := range values {
		rows[i] = []any{mergeFields(v, extra)}
	}
	return h.Insert(ctx, table, rows, InsertOptions{
		Schema:    schema,
		Cols:      []string{JSONColumn},
		Returning: IDColumn,
	})
}

func (h *Helper) Update(ctx context.Context, schema, table string, colValues, preds map[string]any) (int64, error) {
	query, args, err := UpdateQuery(schema, table, colValues, preds)
	if err != nil {
		return 0, err
	}
	return h.Execute(ctx, query, args...)
}

func (h *Helper) Delete(ctx context.Context, schema, table string, preds map[string]any) (int64, error) {
	query, args := DeleteQuery(schema, table, preds)
	return h.Execute(ctx, query, args...)
}

// GetTable reads rows as column maps. Session variables are set on the same
// connection before the query runs.
func (h *Helper) GetTable(ctx context.Context, table string, opts SelectOptions) ([]map[string]any, error) {
	conn, err := h.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	for _, stmt := range SessionStatements(opts.SessionVars) {
		h.logger.Debug("session", zap.String("query", stmt))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("session variable: %w", err)
		}
	}

	query, args := SelectQuery(table, opts)
	h.logger.Debug("select", zap.String("query", query), zap.Int("args", len(args)))
	res, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer res.Close()

	rows, err := scanRows(res)
	if err != nil {
		return nil, err
	}
	h.logger.Info("rows fetched", zap.String("table", table), zap.Int("count", len(rows)))
	return rows, nil
}

// GetJSONTable reads a JSON blob table. Each blob is flattened into dotted
// columns next to the row id, then opts.Predicates and opts.Cols are applied
// in memory.
func (h *Helper) GetJSONTable(ctx context.Context, table string, opts SelectOptions) ([]map[string]any, error) {
	raw, err := h.GetTable(ctx, table, SelectOptions{
		Schema:      opts.Schema,
		Cols:        []string{IDColumn, JSONColumn},
		Limit:       opts.Limit,
		SessionVars: opts.SessionVars,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		row, err := expandBlob(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	rows = FilterRows(rows, opts.Predicates)
	return SelectColumns(rows, opts.Cols), nil
}

func scanRows(res *sql.Rows) ([]map[string]any, error) {
	cols, err := res.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var rows []map[string]any
	for res.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := res.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		rows = append(rows, row)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rows, nil
}
