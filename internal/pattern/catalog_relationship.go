package pattern

import "github.com/plotforge/plotforge/internal/model"

func relationshipPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "scatter",
			Name:     "Scatter Plot",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 5, MinMeasures: 2,
			},
			Rules: []Rule{
				{"relationship intent between two measures", 3, intentIs(CategoryRelationship)},
				{"two numeric measures", 2, multiMeasure},
				{"enough points to show a pattern", 1, shapeIs(func(s DataShape) bool { return s.Rows >= 20 })},
			},
			Generate: genScatter("scatter", "Scatter", false),
		},
		{
			ID:       "bubble",
			Name:     "Bubble Chart",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 5, MinMeasures: 3,
			},
			Rules: []Rule{
				{"a third measure maps to bubble size", 3, shapeIs(func(s DataShape) bool { return s.Measures >= 3 })},
				{"relationship intent", 2, intentIs(CategoryRelationship)},
			},
			Generate: genScatter("bubble", "Bubble Chart", true),
		},
		{
			ID:       "heatmap",
			Name:     "Heatmap",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 4, MinMeasures: 1, MinDimensions: 1,
			},
			Rules: []Rule{
				{"two categorical axes with a measure form a matrix", 3, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 2 })},
				{"wide numeric columns melt into a matrix", 2, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies == 1 && s.Measures >= 2 })},
				{"heatmap or intensity vocabulary", 2, mentions("heatmap", "heat map", "intensity", "matrix")},
			},
			Generate: genMatrix("heatmap", "Heatmap"),
		},
		{
			ID:       "connected_scatter",
			Name:     "Connected Scatter Plot",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 5, MaxRows: 100, MinMeasures: 2, MinTime: 1,
			},
			Rules: []Rule{
				{"two measures evolving together over time", 3, shapeIs(func(s DataShape) bool { return s.Measures >= 2 && s.HasTimeSeries })},
				{"trajectory or path vocabulary", 1, mentions("trajectory", "path", "over time")},
			},
			Generate: genScatter("connected_scatter", "Connected Scatter", false),
		},
		{
			ID:       "hexbin",
			Name:     "Hexbin Plot",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 200, MinMeasures: 2,
			},
			Rules: []Rule{
				{"thousands of points need density binning", 3, shapeIs(func(s DataShape) bool { return s.Rows >= 1000 })},
				{"relationship intent over a large sample", 1, intentIs(CategoryRelationship)},
			},
			Generate: genScatter("hexbin", "Hexbin", false),
		},
		{
			ID:       "parallel_coordinates",
			Name:     "Parallel Coordinates",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 5, MaxRows: 1000, MinMeasures: 4,
			},
			Rules: []Rule{
				{"four or more measures compare across parallel axes", 3, shapeIs(func(s DataShape) bool { return s.Measures >= 4 })},
				{"multivariate vocabulary", 1, mentions("multivariate", "parallel", "many metrics")},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("parallel_coordinates", specTitle(opts, "Parallel Coordinates"), data, model.Encoding{
					Color: fs.dim(0),
				}, map[string]any{"axes": fs.measures})
			},
		},
		{
			ID:       "correlation_matrix",
			Name:     "Correlation Matrix",
			Category: CategoryRelationship,
			Requirements: DataRequirements{
				MinRows: 10, MinMeasures: 3,
			},
			Rules: []Rule{
				{"correlation vocabulary across several measures", 3, mentions("correlation", "correlate", "related")},
				{"three or more measures pair off", 2, shapeIs(func(s DataShape) bool { return s.Measures >= 3 })},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("correlation_matrix", specTitle(opts, "Correlation Matrix"), data, model.Encoding{}, map[string]any{"measures": fs.measures})
			},
		},
	}
}
