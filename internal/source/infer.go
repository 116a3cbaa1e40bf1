package source

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/plotforge/plotforge/internal/model"
)

const (
	maxSampleValues = 10
	maxTopValues    = 5

	// Strings averaging longer than this are free text, not categories.
	textLengthThreshold = 40
)

var inferDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// InferColumns computes a column profile for each named column over the
// rows: inferred type, cardinality, null count, numeric stats, and the
// most frequent values. Column order follows names.
func InferColumns(rows []model.Row, names []string) []model.Column {
	cols := make([]model.Column, len(names))
	for i, name := range names {
		cols[i] = inferColumn(rows, name)
	}
	return cols
}

func inferColumn(rows []model.Row, name string) model.Column {
	col := model.Column{Name: name, TotalCount: len(rows)}

	counts := make(map[string]int)
	var firstSeen []string
	numeric, dates := 0, 0
	nonNull := 0
	totalLen := 0
	var sum, min, max float64

	for _, r := range rows {
		v := r[name]
		if v == nil || v == "" {
			col.NullCount++
			continue
		}
		nonNull++

		key := fmt.Sprintf("%v", v)
		if _, seen := counts[key]; !seen {
			firstSeen = append(firstSeen, key)
			if len(col.SampleValues) < maxSampleValues {
				col.SampleValues = append(col.SampleValues, v)
			}
		}
		counts[key]++
		totalLen += len(key)

		if f, ok := asFloat(v); ok {
			numeric++
			sum += f
			if numeric == 1 || f < min {
				min = f
			}
			if numeric == 1 || f > max {
				max = f
			}
		} else if isDateString(key) {
			dates++
		}
	}

	col.UniqueCount = len(counts)

	switch {
	case nonNull == 0:
		col.Type = model.TypeCategorical
	case numeric == nonNull:
		col.Type = model.TypeNumeric
		col.Stats = &model.ColumnStats{Min: min, Max: max, Mean: sum / float64(numeric)}
	case dates == nonNull:
		col.Type = model.TypeDate
	case totalLen/nonNull > textLengthThreshold:
		col.Type = model.TypeText
	default:
		col.Type = model.TypeCategorical
	}

	col.TopValues = topValues(counts, firstSeen)
	return col
}

// topValues picks the most frequent values, breaking count ties by
// first appearance so the output is deterministic.
func topValues(counts map[string]int, firstSeen []string) []model.ValueCount {
	order := make(map[string]int, len(firstSeen))
	for i, v := range firstSeen {
		order[v] = i
	}
	all := make([]model.ValueCount, 0, len(counts))
	for v, n := range counts {
		all = append(all, model.ValueCount{Value: v, Count: n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return order[all[i].Value] < order[all[j].Value]
	})
	if len(all) > maxTopValues {
		all = all[:maxTopValues]
	}
	return all
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func isDateString(s string) bool {
	for _, layout := range inferDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
