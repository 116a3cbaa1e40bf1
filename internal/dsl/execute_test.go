package dsl

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

// fakeRunner records the SQL it was handed and returns canned rows.
type fakeRunner struct {
	sql  string
	args []any
	rows []model.Row
	err  error
}

func (f *fakeRunner) Query(_ context.Context, sql string, args ...any) ([]model.Row, error) {
	f.sql = sql
	f.args = args
	return f.rows, f.err
}

func TestExecuteNativePath(t *testing.T) {
	runner := &fakeRunner{rows: []model.Row{
		{"region": "north", "sum_amount": 30.0},
	}}
	q := &Query{
		Select:  []SelectField{{Field: "amount", Aggregate: "sum"}},
		GroupBy: []GroupField{{Field: "region_id"}},
	}
	res, err := (&Executor{}).Execute(context.Background(), q, testSchema(), "sales", runner, SQLite)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runner.sql, "SELECT SUM(") {
		t.Errorf("expected full native statement, got %q", runner.sql)
	}
	if !res.OK || len(res.Rows) != 1 {
		t.Errorf("result = %+v", res)
	}
	if want := []string{"sum_amount", "region_id"}; !reflect.DeepEqual(res.Columns, want) {
		t.Errorf("columns = %v, want %v", res.Columns, want)
	}
}

func TestExecuteFallbackPath(t *testing.T) {
	// Median is not native on sqlite, so only the filter is pushed down
	// and the aggregation runs in-process.
	runner := &fakeRunner{rows: []model.Row{
		{"amount": 1.0}, {"amount": 2.0}, {"amount": 3.0}, {"amount": 4.0},
	}}
	q := &Query{
		Select: []SelectField{{Field: "amount", Aggregate: "median"}},
		Filter: []Condition{{Field: "amount", Op: ">", Value: 0.0}},
	}
	res, err := (&Executor{}).Execute(context.Background(), q, testSchema(), "sales", runner, SQLite)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runner.sql, "SELECT * FROM") {
		t.Errorf("expected pushdown statement, got %q", runner.sql)
	}
	if !strings.Contains(runner.sql, "WHERE") {
		t.Errorf("filter should push down, got %q", runner.sql)
	}
	want := []model.Row{{"median_amount": 2.5}}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestExecuteValidationErrorSkipsRunner(t *testing.T) {
	runner := &fakeRunner{}
	q := &Query{Select: []SelectField{{Field: "nope"}}}
	_, err := (&Executor{}).Execute(context.Background(), q, testSchema(), "sales", runner, SQLite)
	if err == nil || !strings.Contains(err.Error(), `unknown field "nope"`) {
		t.Fatalf("err = %v", err)
	}
	if runner.sql != "" {
		t.Errorf("runner should not be called on validation failure, got %q", runner.sql)
	}
}

func TestExecuteInMemoryFullPipeline(t *testing.T) {
	tables := map[string][]model.Row{
		"sales": {
			{"region_id": 1, "amount": 10.0, "sold_at": "2025-01-01"},
			{"region_id": 1, "amount": 20.0, "sold_at": "2025-01-02"},
			{"region_id": 2, "amount": 5.0, "sold_at": "2025-01-03"},
			{"region_id": 2, "amount": 1.0, "sold_at": "2025-01-04"},
			{"region_id": 3, "amount": 100.0, "sold_at": "2025-01-05"},
		},
		"regions": {
			{"id": 1, "name": "north"},
			{"id": 2, "name": "south"},
			{"id": 3, "name": "west"},
		},
	}
	q := &Query{
		Join:    &Join{Table: "regions", On: JoinOn{Left: "region_id", Right: "id"}},
		Select:  []SelectField{{Field: "amount", Aggregate: "sum", Alias: "total"}},
		GroupBy: []GroupField{{Field: "name"}},
		Filter:  []Condition{{Field: "amount", Op: "<", Value: 50.0}},
		Having:  []Condition{{Field: "total", Op: ">", Value: 5.0}},
		OrderBy: []OrderField{{Field: "total", Desc: true}},
	}
	res, err := (&Executor{}).ExecuteInMemory(q, testSchema(), "sales", tables)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Row{
		{"name": "north", "total": 30.0},
		{"name": "south", "total": 6.0},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestExecuteInMemoryLeftJoinKeepsUnmatched(t *testing.T) {
	left := []model.Row{
		{"region_id": 1, "amount": 10.0},
		{"region_id": 9, "amount": 20.0},
	}
	right := []model.Row{{"id": 1, "name": "north"}}

	inner := hashJoin(left, right, &Join{Table: "regions", On: JoinOn{Left: "region_id", Right: "id"}})
	if len(inner) != 1 {
		t.Errorf("inner join rows = %d, want 1", len(inner))
	}

	outer := hashJoin(left, right, &Join{Table: "regions", Type: "left", On: JoinOn{Left: "region_id", Right: "id"}})
	if len(outer) != 2 {
		t.Fatalf("left join rows = %d, want 2", len(outer))
	}
	if outer[1]["name"] != nil {
		t.Errorf("unmatched row should have no joined columns, got %v", outer[1])
	}
}

func TestExecuteRowsWindowsOverGroups(t *testing.T) {
	// Windows apply after aggregation, so running_sum sees the grouped
	// totals in group order.
	rows := []model.Row{
		{"month": "2025-01", "amount": 10.0},
		{"month": "2025-01", "amount": 5.0},
		{"month": "2025-02", "amount": 20.0},
	}
	q := &Query{
		Select: []SelectField{
			{Field: "amount", Aggregate: "sum"},
			{Window: &WindowSpec{Function: "running_sum", Field: "sum_amount", OrderBy: []OrderField{{Field: "month"}}}},
		},
		GroupBy: []GroupField{{Field: "month"}},
	}
	res := (&Executor{}).ExecuteRows(q, rows)
	want := []model.Row{
		{"month": "2025-01", "sum_amount": 15.0, "running_sum_sum_amount": 15.0},
		{"month": "2025-02", "sum_amount": 20.0, "running_sum_sum_amount": 35.0},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestExecuteInMemoryWindowReadsUnselectedColumns(t *testing.T) {
	// The window's field and order column are not plain-selected, so the
	// window has to run before projection narrows the rows.
	tables := map[string][]model.Row{
		"sales": {
			{"region_id": 1, "amount": 10.0, "sold_at": "2025-01-01"},
			{"region_id": 1, "amount": 20.0, "sold_at": "2025-01-02"},
			{"region_id": 1, "amount": 30.0, "sold_at": "2025-01-03"},
		},
	}
	q := &Query{
		Select: []SelectField{
			{Field: "region_id"},
			{Window: &WindowSpec{Function: "running_sum", Field: "amount", OrderBy: []OrderField{{Field: "sold_at"}}}},
		},
	}
	res, err := (&Executor{}).ExecuteInMemory(q, testSchema(), "sales", tables)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Row{
		{"region_id": 1, "running_sum_amount": 10.0},
		{"region_id": 1, "running_sum_amount": 30.0},
		{"region_id": 1, "running_sum_amount": 60.0},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
	// The source's stored rows stay untouched.
	for _, r := range tables["sales"] {
		if _, ok := r["running_sum_amount"]; ok {
			t.Errorf("window column written through to source row %v", r)
		}
	}
}

func TestExecuteInMemoryWindowOverPlainAlias(t *testing.T) {
	tables := map[string][]model.Row{
		"sales": {
			{"region_id": 1, "amount": 10.0, "sold_at": "2025-01-01"},
			{"region_id": 1, "amount": 20.0, "sold_at": "2025-01-02"},
		},
	}
	q := &Query{
		Select: []SelectField{
			{Field: "amount", Alias: "amt"},
			{Window: &WindowSpec{Function: "running_sum", Field: "amt", OrderBy: []OrderField{{Field: "sold_at"}}}},
		},
	}
	res, err := (&Executor{}).ExecuteInMemory(q, testSchema(), "sales", tables)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Row{
		{"amt": 10.0, "running_sum_amt": 10.0},
		{"amt": 20.0, "running_sum_amt": 30.0},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestExecuteInMemoryGroupedWindowOverAggregate(t *testing.T) {
	// A window over an aggregate's output name validates and runs over
	// the grouped rows.
	tables := map[string][]model.Row{
		"sales": {
			{"region_id": 1, "amount": 10.0, "sold_at": "2025-01-01"},
			{"region_id": 1, "amount": 5.0, "sold_at": "2025-01-02"},
			{"region_id": 2, "amount": 20.0, "sold_at": "2025-01-03"},
		},
	}
	q := &Query{
		Select: []SelectField{
			{Field: "amount", Aggregate: "sum"},
			{Window: &WindowSpec{Function: "running_sum", Field: "sum_amount", OrderBy: []OrderField{{Field: "region_id"}}}},
		},
		GroupBy: []GroupField{{Field: "region_id"}},
	}
	res, err := (&Executor{}).ExecuteInMemory(q, testSchema(), "sales", tables)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Row{
		{"region_id": 1, "sum_amount": 15.0, "running_sum_sum_amount": 15.0},
		{"region_id": 2, "sum_amount": 20.0, "running_sum_sum_amount": 35.0},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestRowCapTruncates(t *testing.T) {
	rows := make([]model.Row, 10)
	for i := range rows {
		rows[i] = model.Row{"v": float64(i)}
	}
	q := &Query{Select: []SelectField{{Field: "v"}}}
	res := (&Executor{RowCap: 3}).ExecuteRows(q, rows)
	if len(res.Rows) != 3 {
		t.Errorf("rows = %d, want 3", len(res.Rows))
	}
	if !res.Truncated {
		t.Error("expected Truncated")
	}
	if res.TotalRows != 10 {
		t.Errorf("TotalRows = %d, want 10", res.TotalRows)
	}
}

func TestLimitBeforeCap(t *testing.T) {
	rows := rowsOf("v", 5, 3, 1, 4, 2)
	q := &Query{
		Select:  []SelectField{{Field: "v"}},
		OrderBy: []OrderField{{Field: "v"}},
		Limit:   2,
	}
	res := (&Executor{}).ExecuteRows(q, rows)
	want := []model.Row{{"v": 1.0}, {"v": 2.0}}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
	if res.Truncated {
		t.Error("an explicit limit is not a truncation")
	}
}
