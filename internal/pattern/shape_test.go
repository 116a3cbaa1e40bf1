package pattern

import (
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

func TestBuildShapeOrdersDimensionCardinalities(t *testing.T) {
	data := []model.Row{
		{"region": "North", "product": "A", "sales": 10.0},
		{"region": "South", "product": "B", "sales": -5.0},
	}
	cols := []model.ClassifiedColumn{
		{Column: model.Column{Name: "product", UniqueCount: 12}, Role: model.RoleDimension},
		{Column: model.Column{Name: "region", UniqueCount: 4}, Role: model.RoleDimension},
		{Column: model.Column{Name: "sales"}, Role: model.RoleMeasure},
	}

	s := BuildShape(data, cols)
	// Categories is the lowest dimension cardinality regardless of the
	// column order the classifier emitted.
	if s.Categories != 4 {
		t.Errorf("Categories = %d, want 4", s.Categories)
	}
	if s.Series != 12 {
		t.Errorf("Series = %d, want 12", s.Series)
	}
	if s.Dimensions != 2 || s.Measures != 1 {
		t.Errorf("counts = %d dims, %d measures", s.Dimensions, s.Measures)
	}
	if !s.HasNegativeValues {
		t.Error("expected negative values to be detected")
	}
}
