package dsl

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/plotforge/plotforge/internal/model"
)

// The in-process evaluator. It runs whenever a query uses a window
// function or an aggregate/bucket the target dialect cannot express, and
// for sources that have no SQL engine at all. Semantics match the native
// path where both exist.

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// bucketKey renders the canonical group key for a time bucket. Values
// that do not parse as dates group under their string form, so malformed
// rows surface in the output instead of vanishing.
func bucketKey(v any, bucket string) string {
	t, ok := parseTime(v)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	switch bucket {
	case "day":
		return t.Format("2006-01-02")
	case "week":
		// Monday of the ISO week.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	case "quarter":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case "year":
		return t.Format("2006")
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// numericValues collects the non-null numeric values of a field across
// rows, in row order.
func numericValues(rows []model.Row, field string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if f, ok := toFloat(r[field]); ok {
			out = append(out, f)
		}
	}
	return out
}

// aggregate computes one aggregate over a group of rows. Empty inputs
// yield 0 for sum and the counts, nil for everything else.
func aggregate(f SelectField, rows []model.Row) any {
	switch f.Aggregate {
	case "count":
		if f.Field == "" {
			return len(rows)
		}
		n := 0
		for _, r := range rows {
			if r[f.Field] != nil {
				n++
			}
		}
		return n
	case "count_distinct":
		seen := make(map[string]struct{})
		for _, r := range rows {
			if v := r[f.Field]; v != nil {
				seen[fmt.Sprintf("%v", v)] = struct{}{}
			}
		}
		return len(seen)
	}

	vals := numericValues(rows, f.Field)
	switch f.Aggregate {
	case "sum":
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total
	case "avg":
		if len(vals) == 0 {
			return nil
		}
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total / float64(len(vals))
	case "min":
		if len(vals) == 0 {
			return nil
		}
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case "max":
		if len(vals) == 0 {
			return nil
		}
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case "median":
		return percentileOf(vals, 50)
	case "p25":
		return percentileOf(vals, 25)
	case "p75":
		return percentileOf(vals, 75)
	case "percentile":
		return percentileOf(vals, f.Percentile)
	case "stddev":
		if len(vals) == 0 {
			return nil
		}
		mean := 0.0
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		sq := 0.0
		for _, v := range vals {
			d := v - mean
			sq += d * d
		}
		// Population stddev, matching the native STDDEV_POP path.
		return math.Sqrt(sq / float64(len(vals)))
	}
	return nil
}

// percentileOf computes the p-th percentile with linear interpolation
// between the two nearest ranks. Returns nil on empty input.
func percentileOf(vals []float64, p float64) any {
	if len(vals) == 0 {
		return nil
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// groupKeyValue resolves the group key value for one row.
func groupKeyValue(r model.Row, g GroupField) any {
	if g.Bucket != "" {
		return bucketKey(r[g.Field], g.Bucket)
	}
	return r[g.Field]
}

// evaluateRows runs the grouping and aggregation stage. Aggregates
// without groupBy collapse to a single row. Group output order is first
// appearance in the input, which keeps results deterministic.
func evaluateRows(q *Query, rows []model.Row) []model.Row {
	if len(q.GroupBy) == 0 {
		return []model.Row{aggregateGroup(q, nil, rows)}
	}

	var order []string
	groups := make(map[string][]model.Row)
	keys := make(map[string]model.Row)
	for _, r := range rows {
		keyRow := make(model.Row, len(q.GroupBy))
		key := ""
		for _, g := range q.GroupBy {
			v := groupKeyValue(r, g)
			keyRow[g.Key()] = v
			key += fmt.Sprintf("%v\x00", v)
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			keys[key] = keyRow
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]model.Row, 0, len(order))
	for _, key := range order {
		out = append(out, aggregateGroup(q, keys[key], groups[key]))
	}
	return out
}

// aggregateGroup builds one output row for a group. Plain select fields
// in an aggregated query take the group's first value.
func aggregateGroup(q *Query, keyRow model.Row, rows []model.Row) model.Row {
	out := make(model.Row)
	for k, v := range keyRow {
		out[k] = v
	}
	for _, f := range q.Select {
		switch {
		case f.Window != nil:
			// Windows run after grouping, in applyWindows.
		case f.Aggregate != "":
			out[f.OutputName()] = aggregate(f, rows)
		default:
			if len(rows) > 0 {
				out[f.OutputName()] = rows[0][f.Field]
			}
		}
	}
	return out
}

// projectRows renames and narrows rows to the selected fields. Window
// columns, when already computed, carry over under their output name.
func projectRows(q *Query, rows []model.Row) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		p := make(model.Row, len(q.Select))
		for _, f := range q.Select {
			name := f.OutputName()
			if f.Window != nil {
				p[name] = r[name]
				continue
			}
			p[name] = r[f.Field]
		}
		out[i] = p
	}
	return out
}

// windowInput copies rows for window evaluation, so window columns never
// write through to a source's stored rows, and materializes plain select
// aliases so window specs can reference output names as well.
func windowInput(q *Query, rows []model.Row) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		c := make(model.Row, len(r)+1)
		for k, v := range r {
			c[k] = v
		}
		for _, f := range q.Select {
			if f.Window == nil && f.Aggregate == "" && f.Alias != "" {
				c[f.Alias] = r[f.Field]
			}
		}
		out[i] = c
	}
	return out
}

// matchCondition evaluates one predicate against a row. Comparison
// semantics mirror SQL closely enough for the supported operators:
// numeric comparison when both sides coerce, string otherwise.
func matchCondition(r model.Row, c Condition) bool {
	v := r[c.Field]
	switch c.Op {
	case "is_null":
		return v == nil
	case "is_not_null":
		return v != nil
	case "in", "not_in":
		vals, _ := c.Value.([]any)
		found := false
		for _, candidate := range vals {
			if equalValues(v, candidate) {
				found = true
				break
			}
		}
		if c.Op == "in" {
			return found
		}
		return !found
	case "between":
		vals, _ := c.Value.([]any)
		if len(vals) != 2 || v == nil {
			return false
		}
		return compareValues(v, vals[0]) >= 0 && compareValues(v, vals[1]) <= 0
	}

	if v == nil {
		return false
	}
	cmp := compareValues(v, c.Value)
	switch c.Op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	}
	return false
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return compareValues(a, b) == 0
}

// compareValues orders two values: nil first, numerically when both
// coerce, by string form otherwise.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if oka && okb {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	sa, sb := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// filterRows keeps the rows matching every condition.
func filterRows(rows []model.Row, conds []Condition) []model.Row {
	if len(conds) == 0 {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, c := range conds {
			if !matchCondition(r, c) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// sortRows stable-sorts rows by the order keys.
func sortRows(rows []model.Row, order []OrderField) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			cmp := compareValues(rows[i][o.Field], rows[j][o.Field])
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
