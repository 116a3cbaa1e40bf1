package source

import (
	"reflect"
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

func TestInferColumnTypes(t *testing.T) {
	rows := []model.Row{
		{"amount": 10.0, "region": "north", "sold_at": "2025-01-01", "note": "customer asked for expedited delivery on the second order"},
		{"amount": 20.0, "region": "south", "sold_at": "2025-01-02", "note": "refund issued after the package arrived damaged in transit"},
		{"amount": "30", "region": "north", "sold_at": "2025-01-03", "note": "no issues, repeat customer, paid with stored card on file"},
	}
	cols := InferColumns(rows, []string{"amount", "region", "sold_at", "note"})

	wantTypes := map[string]model.ColumnType{
		"amount":  model.TypeNumeric,
		"region":  model.TypeCategorical,
		"sold_at": model.TypeDate,
		"note":    model.TypeText,
	}
	for _, c := range cols {
		if c.Type != wantTypes[c.Name] {
			t.Errorf("column %q type = %s, want %s", c.Name, c.Type, wantTypes[c.Name])
		}
	}
}

func TestInferColumnCounts(t *testing.T) {
	rows := []model.Row{
		{"v": "a"}, {"v": "b"}, {"v": "a"}, {"v": nil}, {"v": ""},
	}
	col := InferColumns(rows, []string{"v"})[0]
	if col.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", col.TotalCount)
	}
	if col.NullCount != 2 {
		t.Errorf("NullCount = %d, want 2 (empty string counts as null)", col.NullCount)
	}
	if col.UniqueCount != 2 {
		t.Errorf("UniqueCount = %d, want 2", col.UniqueCount)
	}
}

func TestInferNumericStats(t *testing.T) {
	rows := []model.Row{{"v": 1.0}, {"v": 5.0}, {"v": 3.0}}
	col := InferColumns(rows, []string{"v"})[0]
	if col.Stats == nil {
		t.Fatal("expected stats for numeric column")
	}
	want := model.ColumnStats{Min: 1, Max: 5, Mean: 3}
	if *col.Stats != want {
		t.Errorf("stats = %+v, want %+v", *col.Stats, want)
	}
}

func TestInferTopValuesOrderedByFrequency(t *testing.T) {
	rows := []model.Row{
		{"v": "c"}, {"v": "a"}, {"v": "b"}, {"v": "a"}, {"v": "a"}, {"v": "b"},
	}
	col := InferColumns(rows, []string{"v"})[0]
	want := []model.ValueCount{{Value: "a", Count: 3}, {Value: "b", Count: 2}, {Value: "c", Count: 1}}
	if !reflect.DeepEqual(col.TopValues, want) {
		t.Errorf("top values = %v, want %v", col.TopValues, want)
	}
}

func TestInferTopValuesTieBreakByFirstAppearance(t *testing.T) {
	rows := []model.Row{{"v": "x"}, {"v": "y"}, {"v": "y"}, {"v": "x"}}
	col := InferColumns(rows, []string{"v"})[0]
	want := []model.ValueCount{{Value: "x", Count: 2}, {Value: "y", Count: 2}}
	if !reflect.DeepEqual(col.TopValues, want) {
		t.Errorf("top values = %v, want %v", col.TopValues, want)
	}
}

func TestInferMixedValuesAreCategorical(t *testing.T) {
	// One non-numeric value is enough to demote the column.
	rows := []model.Row{{"v": 1.0}, {"v": "n/a"}, {"v": 2.0}}
	col := InferColumns(rows, []string{"v"})[0]
	if col.Type != model.TypeCategorical {
		t.Errorf("type = %s, want categorical", col.Type)
	}
	if col.Stats != nil {
		t.Error("mixed column should have no numeric stats")
	}
}

func TestInferAllNullColumn(t *testing.T) {
	rows := []model.Row{{"v": nil}, {"v": nil}}
	col := InferColumns(rows, []string{"v"})[0]
	if col.Type != model.TypeCategorical {
		t.Errorf("type = %s, want categorical fallback", col.Type)
	}
	if col.NullCount != 2 || col.UniqueCount != 0 {
		t.Errorf("counts = %+v", col)
	}
}
