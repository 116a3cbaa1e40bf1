package pattern

import (
	"sort"

	"github.com/plotforge/plotforge/internal/model"
)

// DataShape is the aggregate description of a classified dataset. It is
// recomputed per selection call and never persisted.
type DataShape struct {
	Rows        int
	Measures    int
	Dimensions  int
	Hierarchies int
	TimeColumns int
	IDs         int
	TextColumns int

	// Categories is the distinct-value count of the lowest-cardinality
	// dimension (the natural primary grouping key). Series is the count
	// for the next dimension up, if any.
	Categories int
	Series     int

	HasTimeSeries     bool
	HasHierarchy      bool
	HasNegativeValues bool
}

// BuildShape derives the DataShape for a row set and its classified
// columns.
func BuildShape(data []model.Row, cols []model.ClassifiedColumn) DataShape {
	s := DataShape{Rows: len(data)}

	var dimUniques []int
	var measureNames []string

	for _, c := range cols {
		switch c.Role {
		case model.RoleMeasure:
			s.Measures++
			measureNames = append(measureNames, c.Name)
		case model.RoleDimension:
			s.Dimensions++
			dimUniques = append(dimUniques, c.UniqueCount)
		case model.RoleHierarchy:
			s.Hierarchies++
			dimUniques = append(dimUniques, c.UniqueCount)
		case model.RoleTime:
			s.TimeColumns++
		case model.RoleID:
			s.IDs++
		case model.RoleText:
			s.TextColumns++
		}
	}

	s.HasTimeSeries = s.TimeColumns > 0 && s.Rows > 1
	s.HasHierarchy = s.Hierarchies > 0 || s.Dimensions+s.Hierarchies >= 2

	sort.Ints(dimUniques)
	if len(dimUniques) > 0 {
		s.Categories = dimUniques[0]
	}
	if len(dimUniques) > 1 {
		s.Series = dimUniques[1]
	}

	s.HasNegativeValues = scanNegatives(data, measureNames)
	return s
}

// scanNegatives reports whether any measure value in the dataset is
// negative.
func scanNegatives(data []model.Row, measures []string) bool {
	for _, row := range data {
		for _, m := range measures {
			if v, ok := numericValue(row[m]); ok && v < 0 {
				return true
			}
		}
	}
	return false
}

// numericValue coerces a dynamic row value to float64 where sensible.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
