package pattern

import "github.com/plotforge/plotforge/internal/model"

func distributionPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "histogram",
			Name:     "Histogram",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 10, MinMeasures: 1,
			},
			Rules: []Rule{
				{"distribution intent", 3, intentIs(CategoryDistribution)},
				{"single measure with many observations", 2, shapeIs(func(s DataShape) bool { return s.Rows >= 30 })},
				{"categorical structure suggests grouped charts instead", -1, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 1 })},
			},
			Generate: genValueOnly("histogram", "Histogram"),
		},
		{
			ID:       "box_plot",
			Name:     "Box Plot",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 5, MinMeasures: 1, MinDimensions: 1, MaxCategories: 25,
			},
			Rules: []Rule{
				{"distribution per category", 3, intentIs(CategoryDistribution)},
				{"outlier or quartile vocabulary", 2, mentions("outlier", "quartile", "median", "box")},
				{"several observations per category", 1, shapeIs(func(s DataShape) bool { return s.Categories > 0 && s.Rows/s.Categories >= 5 })},
			},
			Generate: genPerGroupValue("box_plot", "Box Plot"),
		},
		{
			ID:       "violin",
			Name:     "Violin Plot",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 30, MinMeasures: 1, MinDimensions: 1, MaxCategories: 12,
			},
			Rules: []Rule{
				{"density shape per category needs many points", 2, shapeIs(func(s DataShape) bool { return s.Categories > 0 && s.Rows/s.Categories >= 20 })},
				{"distribution intent", 1, intentIs(CategoryDistribution)},
			},
			Generate: genPerGroupValue("violin", "Violin Plot"),
		},
		{
			ID:       "density_plot",
			Name:     "Density Plot",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 30, MinMeasures: 1,
			},
			Rules: []Rule{
				{"smooth density vocabulary", 2, mentions("density", "smooth", "kde")},
				{"distribution intent over a large sample", 1, shapeIs(func(s DataShape) bool { return s.Rows >= 100 })},
			},
			Generate: genValueOnly("density_plot", "Density Plot"),
		},
		{
			ID:       "ridgeline",
			Name:     "Ridgeline Plot",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 50, MinMeasures: 1, MinDimensions: 1, MinCategories: 3, MaxCategories: 20,
			},
			Rules: []Rule{
				{"distributions across several categories stack as ridges", 2, shapeIs(func(s DataShape) bool { return s.Categories >= 4 })},
				{"distribution intent", 1, intentIs(CategoryDistribution)},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("ridgeline", specTitle(opts, titleFor("Ridgeline", fs.measure(0), fs.dim(0))), data, model.Encoding{
					X:   fs.measure(0),
					Row: fs.dim(0),
				}, nil)
			},
		},
		{
			ID:       "strip_plot",
			Name:     "Strip Plot",
			Category: CategoryDistribution,
			Requirements: DataRequirements{
				MinRows: 5, MaxRows: 2000, MinMeasures: 1, MinDimensions: 1, MaxCategories: 30,
			},
			Rules: []Rule{
				{"raw observations stay visible as individual marks", 1, shapeIs(func(s DataShape) bool { return s.Rows <= 500 })},
				{"individual-points vocabulary", 1, mentions("individual", "each point", "raw values")},
			},
			Generate: genPerGroupValue("strip_plot", "Strip Plot"),
		},
	}
}
