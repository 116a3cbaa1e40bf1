package dsl

import (
	"fmt"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// Validate checks a query against the schema, short-circuiting on the
// first failure. The returned error text is surfaced directly to end
// users and tools, so every message names the clause and field at fault
// and lists valid alternatives where that helps.
func Validate(q *Query, schema *model.DataSchema, table string) error {
	t := schema.Table(table)
	if t == nil {
		return fmt.Errorf("unknown table %q (available: %s)", table, strings.Join(tableNames(schema), ", "))
	}

	var joined *model.DataTable
	if q.Join != nil {
		joined = schema.Table(q.Join.Table)
		if joined == nil {
			return fmt.Errorf("join: unknown table %q (available: %s)", q.Join.Table, strings.Join(tableNames(schema), ", "))
		}
		jt := q.Join.Type
		if jt == "" {
			jt = "inner"
		}
		if jt != "inner" && jt != "left" {
			return fmt.Errorf("join: unsupported join type %q (supported: inner, left)", q.Join.Type)
		}
		if t.Column(q.Join.On.Left) == nil {
			return unknownField("join.on.left", q.Join.On.Left, t)
		}
		if joined.Column(q.Join.On.Right) == nil {
			return unknownField("join.on.right", q.Join.On.Right, joined)
		}
	}

	resolve := func(field string) bool {
		if t.Column(field) != nil {
			return true
		}
		return joined != nil && joined.Column(field) != nil
	}
	available := func() *model.DataTable { return t }

	// Windows, having, and orderBy all run after the aggregation stage,
	// so they resolve post-aggregation output names as well as raw
	// columns.
	outputs := q.outputNames()
	outputResolve := func(field string) bool {
		return resolve(field) || contains(outputs, field)
	}

	if len(q.Select) == 0 {
		return fmt.Errorf("select: at least one field is required")
	}

	for _, f := range q.Select {
		switch {
		case f.Window != nil:
			if err := validateWindow(f.Window, outputResolve, available()); err != nil {
				return err
			}
		case f.Aggregate != "":
			if !contains(aggregateFunctions, f.Aggregate) {
				return fmt.Errorf("select: unknown aggregate %q (supported: %s)", f.Aggregate, strings.Join(aggregateFunctions, ", "))
			}
			// count() needs no field; every other aggregate does.
			if f.Field == "" && f.Aggregate != "count" {
				return fmt.Errorf("select: aggregate %q requires a field", f.Aggregate)
			}
			if f.Field != "" && !resolve(f.Field) {
				return unknownField("select", f.Field, t)
			}
			if f.Aggregate == "percentile" && (f.Percentile <= 0 || f.Percentile >= 100) {
				return fmt.Errorf("select: percentile aggregate on %q requires a percentile argument in (0, 100), got %v", f.Field, f.Percentile)
			}
		default:
			if f.Field == "" {
				return fmt.Errorf("select: field name is required")
			}
			if !resolve(f.Field) {
				return unknownField("select", f.Field, t)
			}
		}
	}

	for _, g := range q.GroupBy {
		if g.Field == "" {
			return fmt.Errorf("groupBy: field name is required")
		}
		if !resolve(g.Field) {
			return unknownField("groupBy", g.Field, t)
		}
		if g.Bucket != "" && !contains(timeBuckets, g.Bucket) {
			return fmt.Errorf("groupBy: unknown time bucket %q on field %q (supported: %s)", g.Bucket, g.Field, strings.Join(timeBuckets, ", "))
		}
	}

	if err := validateConditions("filter", q.Filter, resolve, t); err != nil {
		return err
	}

	if err := validateConditions("having", q.Having, outputResolve, t); err != nil {
		return err
	}

	for _, o := range q.OrderBy {
		if o.Field == "" {
			return fmt.Errorf("orderBy: field name is required")
		}
		if !outputResolve(o.Field) {
			return unknownField("orderBy", o.Field, t)
		}
	}

	if q.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", q.Limit)
	}
	return nil
}

func validateWindow(w *WindowSpec, resolve func(string) bool, t *model.DataTable) error {
	if !contains(windowFunctions, w.Function) {
		return fmt.Errorf("select: unknown window function %q (supported: %s)", w.Function, strings.Join(windowFunctions, ", "))
	}
	switch w.Function {
	case "lag", "lead":
		if w.Field == "" {
			return fmt.Errorf("select: window function %q requires a field", w.Function)
		}
	case "running_sum", "running_avg", "pct_of_total":
		if w.Field == "" {
			return fmt.Errorf("select: window function %q requires a field", w.Function)
		}
	}
	if w.Field != "" && !resolve(w.Field) {
		return unknownField("select window", w.Field, t)
	}
	// Order-sensitive functions are meaningless without an ordering.
	switch w.Function {
	case "rank", "dense_rank", "row_number", "running_sum", "running_avg", "lag", "lead":
		if len(w.OrderBy) == 0 {
			return fmt.Errorf("select: window function %q requires orderBy in its window spec", w.Function)
		}
	}
	for _, p := range w.PartitionBy {
		if !resolve(p) {
			return unknownField("window partitionBy", p, t)
		}
	}
	for _, o := range w.OrderBy {
		if !resolve(o.Field) {
			return unknownField("window orderBy", o.Field, t)
		}
	}
	return nil
}

func validateConditions(clause string, conds []Condition, resolve func(string) bool, t *model.DataTable) error {
	for _, c := range conds {
		if c.Field == "" {
			return fmt.Errorf("%s: field name is required", clause)
		}
		if !resolve(c.Field) {
			return unknownField(clause, c.Field, t)
		}
		if !contains(operators, c.Op) {
			return fmt.Errorf("%s: unknown operator %q on field %q (supported: %s)", clause, c.Op, c.Field, strings.Join(operators, ", "))
		}
		switch c.Op {
		case "in", "not_in":
			vals, ok := c.Value.([]any)
			if !ok || len(vals) == 0 {
				return fmt.Errorf("%s: operator %q on field %q requires a non-empty array value", clause, c.Op, c.Field)
			}
		case "between":
			vals, ok := c.Value.([]any)
			if !ok || len(vals) != 2 {
				return fmt.Errorf("%s: operator %q on field %q requires a two-element array value", clause, c.Op, c.Field)
			}
		case "is_null", "is_not_null":
			if c.Value != nil {
				return fmt.Errorf("%s: operator %q on field %q takes no value", clause, c.Op, c.Field)
			}
		}
	}
	return nil
}

// outputNames lists the result column names the select clause produces.
func (q *Query) outputNames() []string {
	out := make([]string, 0, len(q.Select)+len(q.GroupBy))
	for _, f := range q.Select {
		out = append(out, f.OutputName())
	}
	for _, g := range q.GroupBy {
		out = append(out, g.Key())
	}
	return out
}

func unknownField(clause, field string, t *model.DataTable) error {
	return fmt.Errorf("%s: unknown field %q on table %q (available: %s)",
		clause, field, t.Name, strings.Join(t.ColumnNames(), ", "))
}

func tableNames(schema *model.DataSchema) []string {
	names := make([]string, len(schema.Tables))
	for i, t := range schema.Tables {
		names[i] = t.Name
	}
	return names
}
