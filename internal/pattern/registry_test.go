package pattern

import (
	"testing"
)

func TestRegisterDuplicateID(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&Pattern{ID: "bar", Name: "Bar"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(&Pattern{ID: "bar", Name: "Bar Again"}); err == nil {
		t.Fatal("expected error registering duplicate id")
	}
	if reg.Len() != 1 {
		t.Errorf("registry len = %d, want 1", reg.Len())
	}
}

func TestRegisterEmptyID(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&Pattern{}); err == nil {
		t.Fatal("expected error registering empty id")
	}
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := reg.Register(&Pattern{ID: id, Name: id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	for i, p := range reg.All() {
		if p.ID != ids[i] {
			t.Errorf("position %d = %s, want %s", i, p.ID, ids[i])
		}
	}
}

func TestCompatibleIsStructuralOnly(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Pattern{ID: "needs_rows", Requirements: DataRequirements{MinRows: 10}})
	reg.Register(&Pattern{ID: "needs_measures", Requirements: DataRequirements{MinMeasures: 2}})
	reg.Register(&Pattern{ID: "anything"})

	shape := DataShape{Rows: 5, Measures: 1, Dimensions: 1, Categories: 3}
	got := reg.Compatible(shape)

	if len(got) != 1 || got[0].ID != "anything" {
		ids := make([]string, len(got))
		for i, p := range got {
			ids[i] = p.ID
		}
		t.Errorf("compatible = %v, want [anything]", ids)
	}
}

func TestRequirementsBounds(t *testing.T) {
	tests := []struct {
		name  string
		req   DataRequirements
		shape DataShape
		want  bool
	}{
		{"row max exceeded", DataRequirements{MaxRows: 10}, DataShape{Rows: 11}, false},
		{"row max met", DataRequirements{MaxRows: 10}, DataShape{Rows: 10}, true},
		{"hierarchy counts as dimension", DataRequirements{MinDimensions: 2}, DataShape{Dimensions: 1, Hierarchies: 1}, true},
		{"category minimum", DataRequirements{MinCategories: 3}, DataShape{Dimensions: 1, Categories: 2}, false},
		{"category maximum ignored without dimensions", DataRequirements{MaxCategories: 5}, DataShape{Categories: 0}, true},
		{"time requirement", DataRequirements{MinTime: 1}, DataShape{TimeColumns: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.SatisfiedBy(tt.shape); got != tt.want {
				t.Errorf("SatisfiedBy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	reg := NewDefaultRegistry()

	if reg.Len() != 43 {
		t.Errorf("catalog size = %d, want 43", reg.Len())
	}
	if reg.Get("bar") == nil || reg.Get("table") == nil || reg.Get("sankey") == nil {
		t.Error("expected core patterns bar, table, sankey in the catalog")
	}

	cats := reg.Categories()
	if len(cats) == 0 {
		t.Fatal("no categories")
	}
	total := 0
	for _, c := range cats {
		total += len(reg.ByCategory(c))
	}
	if total != reg.Len() {
		t.Errorf("category partition covers %d patterns, want %d", total, reg.Len())
	}

	if got := len(reg.List()); got != reg.Len() {
		t.Errorf("listing has %d entries, want %d", got, reg.Len())
	}
}
