package dsl

import (
	"fmt"

	"github.com/plotforge/plotforge/internal/model"
)

// applyWindows computes every window select field and writes its output
// column onto the rows in place. Windows run after grouping, so over an
// aggregated query they see the aggregated rows.
func applyWindows(q *Query, rows []model.Row) {
	for _, f := range q.Select {
		if f.Window == nil {
			continue
		}
		applyWindow(f.Window, f.OutputName(), rows)
	}
}

func applyWindow(w *WindowSpec, outName string, rows []model.Row) {
	for _, part := range partitionIndexes(w.PartitionBy, rows) {
		sortPartition(part, w.OrderBy, rows)
		computeWindow(w, outName, part, rows)
	}
}

// partitionIndexes splits row indexes into partitions by the partition
// key, preserving first-appearance order.
func partitionIndexes(partitionBy []string, rows []model.Row) [][]int {
	if len(partitionBy) == 0 {
		all := make([]int, len(rows))
		for i := range rows {
			all[i] = i
		}
		return [][]int{all}
	}
	var order []string
	parts := make(map[string][]int)
	for i, r := range rows {
		key := ""
		for _, f := range partitionBy {
			key += fmt.Sprintf("%v\x00", r[f])
		}
		if _, seen := parts[key]; !seen {
			order = append(order, key)
		}
		parts[key] = append(parts[key], i)
	}
	out := make([][]int, len(order))
	for i, key := range order {
		out[i] = parts[key]
	}
	return out
}

// sortPartition stable-sorts one partition's indexes by the window's
// order keys. Without order keys the input order stands.
func sortPartition(part []int, order []OrderField, rows []model.Row) {
	if len(order) == 0 {
		return
	}
	insertionLess := func(i, j int) bool {
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
	}
	// Insertion sort keeps the sort stable without allocating; partitions
	// are small relative to the row cap.
	for i := 1; i < len(part); i++ {
		for j := i; j > 0 && insertionLess(part[j], part[j-1]); j-- {
			part[j], part[j-1] = part[j-1], part[j]
		}
	}
}

// sameOrderKey reports whether two rows tie on every order key, which is
// what rank and dense_rank peer groups are built from.
func sameOrderKey(a, b model.Row, order []OrderField) bool {
	for _, o := range order {
		if compareValues(a[o.Field], b[o.Field]) != 0 {
			return false
		}
	}
	return true
}

func computeWindow(w *WindowSpec, outName string, part []int, rows []model.Row) {
	switch w.Function {
	case "lag", "lead":
		offset := w.Offset
		if offset == 0 {
			offset = 1
		}
		for pos, idx := range part {
			src := pos - offset
			if w.Function == "lead" {
				src = pos + offset
			}
			if src < 0 || src >= len(part) {
				rows[idx][outName] = w.Default
				continue
			}
			rows[idx][outName] = rows[part[src]][w.Field]
		}

	case "row_number":
		for pos, idx := range part {
			rows[idx][outName] = pos + 1
		}

	case "rank":
		rank := 1
		for pos, idx := range part {
			if pos > 0 && !sameOrderKey(rows[idx], rows[part[pos-1]], w.OrderBy) {
				rank = pos + 1
			}
			rows[idx][outName] = rank
		}

	case "dense_rank":
		rank := 1
		for pos, idx := range part {
			if pos > 0 && !sameOrderKey(rows[idx], rows[part[pos-1]], w.OrderBy) {
				rank++
			}
			rows[idx][outName] = rank
		}

	case "running_sum":
		total := 0.0
		for _, idx := range part {
			if v, ok := toFloat(rows[idx][w.Field]); ok {
				total += v
			}
			rows[idx][outName] = total
		}

	case "running_avg":
		total, n := 0.0, 0
		for _, idx := range part {
			if v, ok := toFloat(rows[idx][w.Field]); ok {
				total += v
				n++
			}
			if n == 0 {
				rows[idx][outName] = nil
				continue
			}
			rows[idx][outName] = total / float64(n)
		}

	case "pct_of_total":
		total := 0.0
		for _, idx := range part {
			if v, ok := toFloat(rows[idx][w.Field]); ok {
				total += v
			}
		}
		for _, idx := range part {
			v, ok := toFloat(rows[idx][w.Field])
			if !ok || total == 0 {
				// An all-zero partition contributes 0%, not a NaN.
				rows[idx][outName] = 0.0
				continue
			}
			rows[idx][outName] = v / total * 100
		}
	}
}
