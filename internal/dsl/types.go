// Package dsl implements the declarative query language: validation,
// compilation to native SQL where the dialect can express the query, and
// in-process evaluation for the parts it cannot (custom aggregates and
// window functions).
package dsl

import (
	"encoding/json"
	"fmt"
)

// Supported aggregate functions.
var aggregateFunctions = []string{
	"sum", "avg", "min", "max", "count", "count_distinct",
	"median", "p25", "p75", "stddev", "percentile",
}

// Supported window functions. All window functions are evaluated
// in-process regardless of dialect, for identical semantics across
// engines.
var windowFunctions = []string{
	"lag", "lead", "rank", "dense_rank", "row_number",
	"running_sum", "running_avg", "pct_of_total",
}

// Supported filter/having operators.
var operators = []string{
	"=", "!=", ">", ">=", "<", "<=",
	"in", "not_in", "between", "is_null", "is_not_null",
}

// Supported time buckets for groupBy entries.
var timeBuckets = []string{"day", "week", "month", "quarter", "year"}

// Query is the declarative query AST. It is validated once per execution
// and never mutated afterwards; compilation produces a new SQL string or
// an in-process plan.
type Query struct {
	Join    *Join         `json:"join,omitempty"`
	Select  []SelectField `json:"select"`
	GroupBy []GroupField  `json:"groupBy,omitempty"`
	Filter  []Condition   `json:"filter,omitempty"`
	Having  []Condition   `json:"having,omitempty"`
	OrderBy []OrderField  `json:"orderBy,omitempty"`
	Limit   int           `json:"limit,omitempty"`
}

// SelectField is one projected output column: a plain field, an
// aggregate, or a window computation.
type SelectField struct {
	Field      string      `json:"field,omitempty"`
	Alias      string      `json:"alias,omitempty"`
	Aggregate  string      `json:"aggregate,omitempty"`
	Percentile float64     `json:"percentile,omitempty"`
	Window     *WindowSpec `json:"window,omitempty"`
}

// OutputName is the column name this field produces in the result set.
func (f SelectField) OutputName() string {
	if f.Alias != "" {
		return f.Alias
	}
	if f.Window != nil {
		if f.Window.Field != "" {
			return f.Window.Function + "_" + f.Window.Field
		}
		return f.Window.Function
	}
	if f.Aggregate != "" {
		if f.Field != "" {
			return f.Aggregate + "_" + f.Field
		}
		return f.Aggregate
	}
	return f.Field
}

// WindowSpec describes a per-row computation over an ordered, optionally
// partitioned sequence.
type WindowSpec struct {
	Function    string       `json:"function"`
	Field       string       `json:"field,omitempty"`
	Offset      int          `json:"offset,omitempty"`
	Default     any          `json:"default,omitempty"`
	PartitionBy []string     `json:"partitionBy,omitempty"`
	OrderBy     []OrderField `json:"orderBy,omitempty"`
}

// GroupField is one groupBy entry: a plain field or a time bucket over a
// date field. In JSON it may be either a bare string or a
// {"field": ..., "bucket": ...} object.
type GroupField struct {
	Field  string `json:"field"`
	Bucket string `json:"bucket,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (g *GroupField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		g.Field = s
		g.Bucket = ""
		return nil
	}
	type plain GroupField
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("groupBy entry must be a string or {field, bucket}: %w", err)
	}
	*g = GroupField(p)
	return nil
}

// Key is the output column name for this group entry.
func (g GroupField) Key() string {
	if g.Bucket != "" {
		return g.Field + "_" + g.Bucket
	}
	return g.Field
}

// Condition is one filter or having predicate.
type Condition struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value,omitempty"`
}

// OrderField is one sort key.
type OrderField struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Join describes a two-table join. Inner and left joins are supported.
type Join struct {
	Table string `json:"table"`
	Type  string `json:"type,omitempty"` // "inner" (default) or "left"
	On    JoinOn `json:"on"`
}

// JoinOn names the join key on each side.
type JoinOn struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// HasAggregates reports whether any select field aggregates.
func (q *Query) HasAggregates() bool {
	for _, f := range q.Select {
		if f.Aggregate != "" {
			return true
		}
	}
	return false
}

// HasWindows reports whether any select field uses a window function.
func (q *Query) HasWindows() bool {
	for _, f := range q.Select {
		if f.Window != nil {
			return true
		}
	}
	return false
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
