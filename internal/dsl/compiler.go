package dsl

import (
	"fmt"
	"strings"
)

// CanCompileNative reports whether the query is expressible as a single
// SQL statement in the dialect. Window functions always force in-process
// evaluation (identical semantics on every engine beats per-dialect
// micro-optimization); aggregates and time buckets the dialect lacks do
// the same.
func CanCompileNative(q *Query, d Dialect) bool {
	if q.HasWindows() {
		return false
	}
	for _, f := range q.Select {
		if f.Aggregate != "" && !d.nativeAggregates[f.Aggregate] {
			return false
		}
	}
	for _, g := range q.GroupBy {
		if g.Bucket != "" {
			if _, ok := d.dateTrunc(g.Bucket, "x"); !ok {
				return false
			}
		}
	}
	return true
}

// compiler tracks placeholder numbering while a statement is built.
type compiler struct {
	d    Dialect
	b    strings.Builder
	args []any
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.d.Placeholder(len(c.args))
}

// Compile builds the full native SQL statement for a query that
// CanCompileNative accepted. The caller validates first; Compile assumes
// a well-formed query.
func Compile(q *Query, table string, d Dialect) (string, []any, error) {
	c := &compiler{d: d}

	c.b.WriteString("SELECT ")
	for i, f := range q.Select {
		if i > 0 {
			c.b.WriteString(", ")
		}
		expr, err := c.selectExpr(f)
		if err != nil {
			return "", nil, err
		}
		c.b.WriteString(expr)
		c.b.WriteString(" AS ")
		c.b.WriteString(d.QuoteIdentifier(f.OutputName()))
	}
	for _, g := range q.GroupBy {
		c.b.WriteString(", ")
		c.b.WriteString(c.groupExpr(g))
		c.b.WriteString(" AS ")
		c.b.WriteString(d.QuoteIdentifier(g.Key()))
	}

	c.b.WriteString(" FROM ")
	c.b.WriteString(d.QuoteIdentifier(table))

	if q.Join != nil {
		c.writeJoin(q.Join, table)
	}

	if len(q.Filter) > 0 {
		c.b.WriteString(" WHERE ")
		if err := c.writeConditions(q.Filter, nil); err != nil {
			return "", nil, err
		}
	}

	if len(q.GroupBy) > 0 {
		c.b.WriteString(" GROUP BY ")
		for i, g := range q.GroupBy {
			if i > 0 {
				c.b.WriteString(", ")
			}
			c.b.WriteString(c.groupExpr(g))
		}
	}

	if len(q.Having) > 0 {
		// HAVING references aggregate expressions, not their aliases;
		// not every engine resolves output aliases there.
		exprFor := c.aggregateExprs(q)
		c.b.WriteString(" HAVING ")
		if err := c.writeConditions(q.Having, exprFor); err != nil {
			return "", nil, err
		}
	}

	if len(q.OrderBy) > 0 {
		c.b.WriteString(" ORDER BY ")
		for i, o := range q.OrderBy {
			if i > 0 {
				c.b.WriteString(", ")
			}
			c.b.WriteString(d.QuoteIdentifier(o.Field))
			if o.Desc {
				c.b.WriteString(" DESC")
			}
		}
	}

	if q.Limit > 0 {
		c.b.WriteString(" LIMIT ")
		c.b.WriteString(c.bind(q.Limit))
	}

	return c.b.String(), c.args, nil
}

// CompileBase builds the pushdown statement used before in-process
// evaluation: the join and row filters run in SQL, grouping and windows
// run in the evaluator. Selects every column so the evaluator sees the
// fields the aggregates and windows need.
func CompileBase(q *Query, table string, d Dialect) (string, []any, error) {
	c := &compiler{d: d}

	c.b.WriteString("SELECT * FROM ")
	c.b.WriteString(d.QuoteIdentifier(table))

	if q.Join != nil {
		c.writeJoin(q.Join, table)
	}

	if len(q.Filter) > 0 {
		c.b.WriteString(" WHERE ")
		if err := c.writeConditions(q.Filter, nil); err != nil {
			return "", nil, err
		}
	}

	return c.b.String(), c.args, nil
}

func (c *compiler) writeJoin(j *Join, table string) {
	jt := strings.ToUpper(j.Type)
	if jt == "" {
		jt = "INNER"
	}
	c.b.WriteString(" ")
	c.b.WriteString(jt)
	c.b.WriteString(" JOIN ")
	c.b.WriteString(c.d.QuoteIdentifier(j.Table))
	c.b.WriteString(" ON ")
	c.b.WriteString(c.d.QuoteIdentifier(table))
	c.b.WriteString(".")
	c.b.WriteString(c.d.QuoteIdentifier(j.On.Left))
	c.b.WriteString(" = ")
	c.b.WriteString(c.d.QuoteIdentifier(j.Table))
	c.b.WriteString(".")
	c.b.WriteString(c.d.QuoteIdentifier(j.On.Right))
}

// writeConditions renders a condition list joined by AND. exprFor, when
// non-nil, maps a field name to a SQL expression (used by HAVING to
// substitute aggregate expressions for their aliases).
func (c *compiler) writeConditions(conds []Condition, exprFor map[string]string) error {
	for i, cond := range conds {
		if i > 0 {
			c.b.WriteString(" AND ")
		}
		lhs := c.d.QuoteIdentifier(cond.Field)
		if exprFor != nil {
			if expr, ok := exprFor[cond.Field]; ok {
				lhs = expr
			}
		}
		switch cond.Op {
		case "in", "not_in":
			vals := cond.Value.([]any)
			op := "IN"
			if cond.Op == "not_in" {
				op = "NOT IN"
			}
			marks := make([]string, len(vals))
			for j, v := range vals {
				marks[j] = c.bind(v)
			}
			fmt.Fprintf(&c.b, "%s %s (%s)", lhs, op, strings.Join(marks, ", "))
		case "between":
			vals := cond.Value.([]any)
			fmt.Fprintf(&c.b, "%s BETWEEN %s AND %s", lhs, c.bind(vals[0]), c.bind(vals[1]))
		case "is_null":
			fmt.Fprintf(&c.b, "%s IS NULL", lhs)
		case "is_not_null":
			fmt.Fprintf(&c.b, "%s IS NOT NULL", lhs)
		case "=", "!=", ">", ">=", "<", "<=":
			op := cond.Op
			if op == "!=" {
				op = "<>"
			}
			fmt.Fprintf(&c.b, "%s %s %s", lhs, op, c.bind(cond.Value))
		default:
			return fmt.Errorf("unsupported operator %q", cond.Op)
		}
	}
	return nil
}

// selectExpr renders one projected column.
func (c *compiler) selectExpr(f SelectField) (string, error) {
	if f.Aggregate == "" {
		return c.d.QuoteIdentifier(f.Field), nil
	}
	col := ""
	if f.Field != "" {
		col = c.d.QuoteIdentifier(f.Field)
	}
	switch f.Aggregate {
	case "sum", "avg", "min", "max":
		return fmt.Sprintf("%s(%s)", strings.ToUpper(f.Aggregate), col), nil
	case "count":
		if col == "" {
			return "COUNT(*)", nil
		}
		return fmt.Sprintf("COUNT(%s)", col), nil
	case "count_distinct":
		return fmt.Sprintf("COUNT(DISTINCT %s)", col), nil
	case "stddev":
		// Population stddev on every engine, matching the in-process
		// evaluator.
		return fmt.Sprintf("STDDEV_POP(%s)", col), nil
	case "median":
		return fmt.Sprintf("percentile_cont(0.5) WITHIN GROUP (ORDER BY %s)", col), nil
	case "p25":
		return fmt.Sprintf("percentile_cont(0.25) WITHIN GROUP (ORDER BY %s)", col), nil
	case "p75":
		return fmt.Sprintf("percentile_cont(0.75) WITHIN GROUP (ORDER BY %s)", col), nil
	case "percentile":
		return fmt.Sprintf("percentile_cont(%g) WITHIN GROUP (ORDER BY %s)", f.Percentile/100, col), nil
	}
	return "", fmt.Errorf("aggregate %q cannot be compiled natively", f.Aggregate)
}

func (c *compiler) groupExpr(g GroupField) string {
	col := c.d.QuoteIdentifier(g.Field)
	if g.Bucket == "" {
		return col
	}
	expr, _ := c.d.dateTrunc(g.Bucket, col)
	return expr
}

// aggregateExprs maps each aggregate select field's output name to its
// SQL expression.
func (c *compiler) aggregateExprs(q *Query) map[string]string {
	out := make(map[string]string)
	for _, f := range q.Select {
		if f.Aggregate == "" {
			continue
		}
		if expr, err := c.selectExpr(f); err == nil {
			out[f.OutputName()] = expr
		}
	}
	return out
}
