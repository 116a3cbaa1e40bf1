package dsl

import (
	"reflect"
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

func seqRows(field string, vals ...float64) []model.Row {
	out := make([]model.Row, len(vals))
	for i, v := range vals {
		out[i] = model.Row{"t": i + 1, field: v}
	}
	return out
}

func column(rows []model.Row, name string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r[name]
	}
	return out
}

func TestWindowLag(t *testing.T) {
	rows := seqRows("v", 10, 20, 30)
	w := &WindowSpec{Function: "lag", Field: "v", Default: 0.0, OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "lag_v", rows)
	want := []any{0.0, 10.0, 20.0}
	if got := column(rows, "lag_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("lag = %v, want %v", got, want)
	}
}

func TestWindowLagDefaultNilAndOffset(t *testing.T) {
	rows := seqRows("v", 10, 20, 30)
	w := &WindowSpec{Function: "lag", Field: "v", Offset: 2, OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "lag_v", rows)
	want := []any{nil, nil, 10.0}
	if got := column(rows, "lag_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("lag offset 2 = %v, want %v", got, want)
	}
}

func TestWindowLead(t *testing.T) {
	rows := seqRows("v", 10, 20, 30)
	w := &WindowSpec{Function: "lead", Field: "v", OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "lead_v", rows)
	want := []any{20.0, 30.0, nil}
	if got := column(rows, "lead_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("lead = %v, want %v", got, want)
	}
}

func TestWindowRunningSum(t *testing.T) {
	rows := seqRows("v", 10, 20, 30)
	w := &WindowSpec{Function: "running_sum", Field: "v", OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "running_sum_v", rows)
	want := []any{10.0, 30.0, 60.0}
	if got := column(rows, "running_sum_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("running_sum = %v, want %v", got, want)
	}
}

func TestWindowRunningAvg(t *testing.T) {
	rows := seqRows("v", 10, 20, 30)
	w := &WindowSpec{Function: "running_avg", Field: "v", OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "running_avg_v", rows)
	want := []any{10.0, 15.0, 20.0}
	if got := column(rows, "running_avg_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("running_avg = %v, want %v", got, want)
	}
}

func TestWindowRankAndDenseRank(t *testing.T) {
	rows := seqRows("score", 50, 40, 40, 30)
	order := []OrderField{{Field: "score", Desc: true}}

	applyWindow(&WindowSpec{Function: "rank", OrderBy: order}, "rank", rows)
	if got, want := column(rows, "rank"), []any{1, 2, 2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("rank = %v, want %v", got, want)
	}

	applyWindow(&WindowSpec{Function: "dense_rank", OrderBy: order}, "dense_rank", rows)
	if got, want := column(rows, "dense_rank"), []any{1, 2, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("dense_rank = %v, want %v", got, want)
	}
}

func TestWindowRowNumber(t *testing.T) {
	rows := seqRows("score", 40, 40, 40)
	applyWindow(&WindowSpec{Function: "row_number", OrderBy: []OrderField{{Field: "score"}}}, "row_number", rows)
	if got, want := column(rows, "row_number"), []any{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("row_number = %v, want %v", got, want)
	}
}

func TestWindowPctOfTotal(t *testing.T) {
	rows := seqRows("v", 1, 3)
	applyWindow(&WindowSpec{Function: "pct_of_total", Field: "v"}, "pct", rows)
	if got, want := column(rows, "pct"), []any{25.0, 75.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("pct_of_total = %v, want %v", got, want)
	}
}

func TestWindowPctOfTotalZeroTotal(t *testing.T) {
	rows := seqRows("v", 0, 0)
	applyWindow(&WindowSpec{Function: "pct_of_total", Field: "v"}, "pct", rows)
	if got, want := column(rows, "pct"), []any{0.0, 0.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("pct_of_total over zeros = %v, want %v", got, want)
	}
}

func TestWindowPartitioning(t *testing.T) {
	rows := []model.Row{
		{"g": "a", "t": 1, "v": 10.0},
		{"g": "b", "t": 1, "v": 100.0},
		{"g": "a", "t": 2, "v": 20.0},
		{"g": "b", "t": 2, "v": 200.0},
	}
	w := &WindowSpec{
		Function:    "running_sum",
		Field:       "v",
		PartitionBy: []string{"g"},
		OrderBy:     []OrderField{{Field: "t"}},
	}
	applyWindow(w, "running_sum_v", rows)
	want := []any{10.0, 100.0, 30.0, 300.0}
	if got := column(rows, "running_sum_v"); !reflect.DeepEqual(got, want) {
		t.Errorf("partitioned running_sum = %v, want %v", got, want)
	}
}

func TestWindowOrderIsIndependentOfInputOrder(t *testing.T) {
	// Rows arrive out of time order; the window sorts within the
	// partition but leaves row positions alone.
	rows := []model.Row{
		{"t": 3, "v": 30.0},
		{"t": 1, "v": 10.0},
		{"t": 2, "v": 20.0},
	}
	w := &WindowSpec{Function: "running_sum", Field: "v", OrderBy: []OrderField{{Field: "t"}}}
	applyWindow(w, "rs", rows)
	want := []any{60.0, 10.0, 30.0}
	if got := column(rows, "rs"); !reflect.DeepEqual(got, want) {
		t.Errorf("running_sum = %v, want %v", got, want)
	}
}
