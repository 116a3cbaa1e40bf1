package dsl

import (
	"context"
	"fmt"

	"github.com/plotforge/plotforge/internal/model"
)

// Runner executes SQL against a live connection and returns rows as
// maps. The source package provides the sqlx-backed implementation.
type Runner interface {
	Query(ctx context.Context, sql string, args ...any) ([]model.Row, error)
}

// DefaultRowCap bounds result sets that reach clients. Queries are never
// rejected for exceeding it; the result is truncated and flagged.
const DefaultRowCap = 10000

// Executor turns validated queries into results, choosing native SQL
// when the dialect can express the whole query and in-process evaluation
// otherwise.
type Executor struct {
	RowCap int
}

func (e *Executor) rowCap() int {
	if e.RowCap > 0 {
		return e.RowCap
	}
	return DefaultRowCap
}

// Execute validates and runs a query against a SQL-backed source.
func (e *Executor) Execute(ctx context.Context, q *Query, schema *model.DataSchema, table string, runner Runner, d Dialect) (*model.QueryResult, error) {
	if err := Validate(q, schema, table); err != nil {
		return nil, err
	}

	if CanCompileNative(q, d) {
		sql, args, err := Compile(q, table, d)
		if err != nil {
			return nil, fmt.Errorf("compiling query: %w", err)
		}
		rows, err := runner.Query(ctx, sql, args...)
		if err != nil {
			return nil, fmt.Errorf("executing query: %w", err)
		}
		// Ordering and limit already ran in SQL; only the cap remains.
		return e.finalize(q, rows), nil
	}

	// Pushdown path: join and filters run in SQL, everything else runs
	// here so the semantics stay identical across engines.
	sql, args, err := CompileBase(q, table, d)
	if err != nil {
		return nil, fmt.Errorf("compiling base query: %w", err)
	}
	rows, err := runner.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("executing base query: %w", err)
	}
	return e.ExecuteRows(q, rows), nil
}

// ExecuteRows runs the full in-process pipeline over pre-filtered rows:
// group and aggregate, window functions, having, order, limit.
func (e *Executor) ExecuteRows(q *Query, rows []model.Row) *model.QueryResult {
	var out []model.Row
	if len(q.GroupBy) == 0 && !q.HasAggregates() {
		// Without grouping, windows read raw columns that projection may
		// drop, so they run first, over copies of the input rows.
		if q.HasWindows() {
			rows = windowInput(q, rows)
			applyWindows(q, rows)
		}
		out = projectRows(q, rows)
	} else {
		out = evaluateRows(q, rows)
		applyWindows(q, out)
	}
	out = filterRows(out, q.Having)
	sortRows(out, q.OrderBy)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return e.finalize(q, out)
}

// ExecuteInMemory validates and runs a query over in-memory tables, for
// sources with no SQL engine behind them. Filters and the join run here
// too.
func (e *Executor) ExecuteInMemory(q *Query, schema *model.DataSchema, table string, tables map[string][]model.Row) (*model.QueryResult, error) {
	if err := Validate(q, schema, table); err != nil {
		return nil, err
	}
	rows := tables[table]
	if q.Join != nil {
		rows = hashJoin(rows, tables[q.Join.Table], q.Join)
	}
	rows = filterRows(rows, q.Filter)
	return e.ExecuteRows(q, rows), nil
}

// hashJoin joins left rows against right rows on the join keys. Left
// joins keep unmatched left rows; right columns do not overwrite left
// ones on name clashes.
func hashJoin(left, right []model.Row, j *Join) []model.Row {
	index := make(map[string][]model.Row, len(right))
	for _, r := range right {
		key := fmt.Sprintf("%v", r[j.On.Right])
		index[key] = append(index[key], r)
	}

	leftJoin := j.Type == "left"
	out := make([]model.Row, 0, len(left))
	for _, l := range left {
		matches := index[fmt.Sprintf("%v", l[j.On.Left])]
		if len(matches) == 0 {
			if leftJoin {
				out = append(out, l)
			}
			continue
		}
		for _, r := range matches {
			merged := make(model.Row, len(l)+len(r))
			for k, v := range r {
				merged[k] = v
			}
			for k, v := range l {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

// finalize applies the row cap and wraps rows in a result envelope.
func (e *Executor) finalize(q *Query, rows []model.Row) *model.QueryResult {
	total := len(rows)
	truncated := false
	if max := e.rowCap(); total > max {
		rows = rows[:max]
		truncated = true
	}
	return &model.QueryResult{
		OK:        true,
		Rows:      rows,
		Columns:   q.outputNames(),
		TotalRows: total,
		Truncated: truncated,
	}
}
