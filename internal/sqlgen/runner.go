package sqlgen

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventware/queryspec/pkg/query"
)

// Row is one result row keyed by the projected moniker constituents.
type Row map[string]any

// Runner executes rendered queries against a database handle.
type Runner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunner wires a runner to a database handle. A nil logger falls
// back to slog.Default.
func NewRunner(db *sql.DB, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, logger: logger}
}

// Run renders and executes the query, returning all rows. Column keys
// follow the database's reported column names.
func (r *Runner) Run(ctx context.Context, q *query.Query) ([]Row, error) {
	sqlText, args, err := Build(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		r.logger.Error("query failed",
			slog.String("scope", string(q.Scope)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("executing query for scope %q: %w", q.Scope, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("query executed",
		slog.String("scope", string(q.Scope)),
		slog.Int("rows", len(out)),
		slog.Duration("elapsed", time.Since(start)))

	return out, nil
}
