package pattern

import "github.com/plotforge/plotforge/internal/model"

func comparisonPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "bar",
			Name:     "Bar Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 1, MinMeasures: 1, MinDimensions: 1, MinCategories: 1, MaxCategories: 50,
			},
			Rules: []Rule{
				{"comparison intent favors discrete bars", 3, intentIs(CategoryComparison)},
				{"one measure across a modest number of categories", 2, categoriesBetween(2, 20)},
				{"general-purpose default for categorical data", 1, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 1 })},
				{"time series reads better as a line", -1, hasTimeSeries},
			},
			Generate: genCatMeasure("bar", "Bar Chart"),
		},
		{
			ID:       "horizontal_bar",
			Name:     "Horizontal Bar Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 1, MinMeasures: 1, MinDimensions: 1, MinCategories: 1, MaxCategories: 60,
			},
			Rules: []Rule{
				{"ranking intent reads naturally top-to-bottom", 3, intentIs(CategoryRanking)},
				{"many categories need horizontal room for labels", 2, categoriesBetween(10, 60)},
				{"comparison intent", 1, intentIs(CategoryComparison)},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("horizontal_bar", specTitle(opts, titleFor("Horizontal Bars", fs.measure(0), fs.dim(0))), data, model.Encoding{
					Y: fs.dim(0),
					X: fs.measure(0),
				}, nil)
			},
		},
		{
			ID:       "grouped_bar",
			Name:     "Grouped Bar Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 2, MinCategories: 2, MaxCategories: 15,
			},
			Rules: []Rule{
				{"two dimensions compare side by side", 3, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 2 && s.Series > 0 && s.Series <= 8 })},
				{"comparison intent", 2, intentIs(CategoryComparison)},
				{"too many series crowd grouped bars", -2, shapeIs(func(s DataShape) bool { return s.Series > 8 })},
			},
			Generate: genCatMeasureSeries("grouped_bar", "Grouped Bars"),
		},
		{
			ID:       "stacked_bar",
			Name:     "Stacked Bar Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 2, MinCategories: 2, MaxCategories: 20,
			},
			Rules: []Rule{
				{"composition within categories stacks naturally", 3, intentIs(CategoryComposition)},
				{"two dimensions with one measure", 2, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 2 })},
				{"negative values break stacking", -3, hasNegatives},
			},
			Generate: genCatMeasureSeries("stacked_bar", "Stacked Bars"),
		},
		{
			ID:       "lollipop",
			Name:     "Lollipop Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 3, MinMeasures: 1, MinDimensions: 1, MinCategories: 3, MaxCategories: 40,
			},
			Rules: []Rule{
				{"ranking intent with many categories", 2, intentIs(CategoryRanking)},
				{"lighter mark than bars for larger category counts", 1, categoriesBetween(15, 40)},
			},
			Generate: genCatMeasure("lollipop", "Lollipop Chart"),
		},
		{
			ID:       "dot_plot",
			Name:     "Dot Plot",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 1, MinCategories: 2, MaxCategories: 40,
			},
			Rules: []Rule{
				{"comparison of point values across categories", 1, intentIs(CategoryComparison)},
				{"dots handle wide value ranges without zero baseline", 1, hasNegatives},
			},
			Generate: genCatMeasure("dot_plot", "Dot Plot"),
		},
		{
			ID:       "dumbbell",
			Name:     "Dumbbell Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 2, MaxMeasures: 2, MinDimensions: 1, MinCategories: 2, MaxCategories: 30,
			},
			Rules: []Rule{
				{"exactly two measures invite before/after comparison", 3, shapeIs(func(s DataShape) bool { return s.Measures == 2 })},
				{"change or gap vocabulary in the intent", 2, mentions("change", "gap", "before", "after", "delta")},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("dumbbell", specTitle(opts, titleFor("Dumbbell", fs.measure(0), fs.dim(0))), data, model.Encoding{
					Y:  fs.dim(0),
					X:  fs.measure(0),
					Y2: fs.measure(1),
				}, nil)
			},
		},
		{
			ID:       "radar",
			Name:     "Radar Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 1, MaxRows: 12, MinMeasures: 3, MinDimensions: 1, MaxCategories: 12,
			},
			Rules: []Rule{
				{"several measures per entity fan out as spokes", 2, shapeIs(func(s DataShape) bool { return s.Measures >= 3 && s.Measures <= 10 })},
				{"profile or multi-metric vocabulary", 2, mentions("profile", "radar", "across metrics", "dimensions")},
				{"negative values distort radial axes", -2, hasNegatives},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				long := Melt(data, fs.dim(0), fs.measures)
				return buildSpec("radar", specTitle(opts, titleFor("Radar", "value", fs.dim(0))), long, model.Encoding{
					X:     "metric",
					Y:     "value",
					Color: fs.dim(0),
				}, map[string]any{"melted": true})
			},
		},
		{
			ID:       "bullet",
			Name:     "Bullet Chart",
			Category: CategoryComparison,
			Requirements: DataRequirements{
				MinRows: 1, MaxRows: 20, MinMeasures: 2, MinDimensions: 1,
			},
			Rules: []Rule{
				{"target or goal vocabulary pairs actual vs target", 3, mentions("target", "goal", "budget", "quota", "versus plan")},
				{"two measures over few rows", 1, shapeIs(func(s DataShape) bool { return s.Measures >= 2 && s.Rows <= 12 })},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("bullet", specTitle(opts, titleFor("Bullet", fs.measure(0), fs.dim(0))), data, model.Encoding{
					Y:  fs.dim(0),
					X:  fs.measure(0),
					Y2: fs.measure(1),
				}, nil)
			},
		},
	}
}
