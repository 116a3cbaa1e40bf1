package pattern

import "github.com/plotforge/plotforge/internal/model"

func compositionPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "pie",
			Name:     "Pie Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 1, MinCategories: 2, MaxCategories: 8,
			},
			Rules: []Rule{
				{"part-to-whole intent with few slices", 3, intentIs(CategoryComposition)},
				{"five or fewer slices stay readable", 2, categoriesBetween(2, 5)},
				{"negative values cannot be slices", -3, hasNegatives},
				{"time series is not a composition", -2, hasTimeSeries},
			},
			Generate: genPart("pie", "Pie Chart"),
		},
		{
			ID:       "donut",
			Name:     "Donut Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 1, MinCategories: 2, MaxCategories: 8,
			},
			Rules: []Rule{
				{"part-to-whole intent", 2, intentIs(CategoryComposition)},
				{"donut or ring vocabulary", 2, mentions("donut", "doughnut", "ring")},
				{"negative values cannot be slices", -3, hasNegatives},
			},
			Generate: genPart("donut", "Donut Chart"),
		},
		{
			ID:       "treemap",
			Name:     "Treemap",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 3, MinMeasures: 1, MinDimensions: 1, MinCategories: 3,
			},
			Rules: []Rule{
				{"hierarchical drill structure nests as rectangles", 3, hasHierarchyLevels},
				{"composition intent over many categories", 2, shapeIs(func(s DataShape) bool { return s.Categories > 8 })},
				{"hierarchy or nested vocabulary", 2, mentions("hierarchy", "nested", "drill", "treemap")},
				{"negative values have no area", -3, hasNegatives},
			},
			Generate: genHierarchy("treemap", "Treemap"),
		},
		{
			ID:       "sunburst",
			Name:     "Sunburst Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 3, MinMeasures: 1, MinDimensions: 2, MinCategories: 2,
			},
			Rules: []Rule{
				{"multi-level hierarchy radiates outward", 3, hasHierarchyLevels},
				{"ring or radial vocabulary", 1, mentions("sunburst", "radial", "ring")},
				{"negative values have no arc", -3, hasNegatives},
			},
			Generate: genHierarchy("sunburst", "Sunburst"),
		},
		{
			ID:       "waffle",
			Name:     "Waffle Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 2, MaxRows: 10, MinMeasures: 1, MinDimensions: 1, MaxCategories: 10,
			},
			Rules: []Rule{
				{"percentage vocabulary reads as filled squares", 2, mentions("percent", "percentage", "out of 100", "waffle")},
				{"composition intent with few parts", 1, intentIs(CategoryComposition)},
			},
			Generate: genPart("waffle", "Waffle Chart"),
		},
		{
			ID:       "funnel",
			Name:     "Funnel Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 2, MaxRows: 12, MinMeasures: 1, MinDimensions: 1, MinCategories: 2, MaxCategories: 12,
			},
			Rules: []Rule{
				{"stage or conversion vocabulary narrows as a funnel", 3, mentions("funnel", "conversion", "stage", "pipeline", "drop-off", "dropoff")},
				{"flow intent over ordered stages", 2, intentIs(CategoryFlow)},
				{"time series is not a stage sequence", -1, hasTimeSeries},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("funnel", specTitle(opts, titleFor("Funnel", fs.measure(0), fs.dim(0))), data, model.Encoding{
					Y: fs.dim(0),
					X: fs.measure(0),
				}, map[string]any{"sort": "descending"})
			},
		},
		{
			ID:       "marimekko",
			Name:     "Marimekko Chart",
			Category: CategoryComposition,
			Requirements: DataRequirements{
				MinRows: 4, MinMeasures: 1, MinDimensions: 2, MinCategories: 2, MaxCategories: 12,
			},
			Rules: []Rule{
				{"two-way composition varies both width and height", 2, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 2 })},
				{"market share vocabulary", 2, mentions("market share", "mekko", "marimekko", "segment")},
				{"negative values have no area", -3, hasNegatives},
			},
			Generate: genCatMeasureSeries("marimekko", "Marimekko"),
		},
	}
}
