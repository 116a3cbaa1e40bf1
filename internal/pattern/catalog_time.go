package pattern

import "github.com/plotforge/plotforge/internal/model"

func timePatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "line",
			Name:     "Line Chart",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinTime: 1,
			},
			Rules: []Rule{
				{"time series data", 3, hasTimeSeries},
				{"trend intent", 3, intentIs(CategoryTime)},
				{"enough points for a continuous line", 1, shapeIs(func(s DataShape) bool { return s.Rows >= 5 })},
			},
			Generate: genSequence("line", "Line Chart", true),
		},
		{
			ID:       "area",
			Name:     "Area Chart",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 3, MinMeasures: 1, MinTime: 1,
			},
			Rules: []Rule{
				{"cumulative or volume vocabulary fills the area", 2, mentions("cumulative", "volume", "total over", "accumulate")},
				{"time series data", 2, hasTimeSeries},
				{"negative values undermine the filled baseline", -2, hasNegatives},
			},
			Generate: genSequence("area", "Area Chart", false),
		},
		{
			ID:       "stacked_area",
			Name:     "Stacked Area Chart",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 4, MinMeasures: 1, MinDimensions: 1, MinTime: 1, MaxCategories: 10,
			},
			Rules: []Rule{
				{"composition over time stacks series", 3, intentIs(CategoryComposition)},
				{"time series with a small series dimension", 2, shapeIs(func(s DataShape) bool { return s.HasTimeSeries && s.Categories >= 2 && s.Categories <= 8 })},
				{"negative values break stacking", -3, hasNegatives},
			},
			Generate: genSequence("stacked_area", "Stacked Area", true),
		},
		{
			ID:       "stream_graph",
			Name:     "Stream Graph",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 10, MinMeasures: 1, MinDimensions: 1, MinTime: 1, MinCategories: 3, MaxCategories: 12,
			},
			Rules: []Rule{
				{"organic flow of many series over a long range", 2, shapeIs(func(s DataShape) bool { return s.Rows >= 30 })},
				{"flow or stream vocabulary", 2, mentions("stream", "ebb", "wave")},
			},
			Generate: genSequence("stream_graph", "Stream Graph", true),
		},
		{
			ID:       "step_line",
			Name:     "Step Line Chart",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinTime: 1,
			},
			Rules: []Rule{
				{"discrete level changes step rather than slope", 2, mentions("step", "level", "rate change", "price change", "threshold")},
				{"time series data", 1, hasTimeSeries},
			},
			Generate: genSequence("step_line", "Step Line", false),
		},
		{
			ID:       "sparkline",
			Name:     "Sparkline Grid",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 6, MinMeasures: 1, MinDimensions: 1, MinTime: 1, MinCategories: 4,
			},
			Rules: []Rule{
				{"many small multiples beat one crowded line", 2, shapeIs(func(s DataShape) bool { return s.Categories > 8 })},
				{"overview or glance vocabulary", 1, mentions("overview", "at a glance", "small multiples", "sparkline")},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("sparkline", specTitle(opts, titleFor("Sparklines", fs.measure(0), fs.dim(0))), data, model.Encoding{
					X:   fs.time(0),
					Y:   fs.measure(0),
					Row: fs.dim(0),
				}, nil)
			},
		},
		{
			ID:       "calendar_heatmap",
			Name:     "Calendar Heatmap",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 28, MinMeasures: 1, MinTime: 1,
			},
			Rules: []Rule{
				{"daily granularity over months suits a calendar", 2, shapeIs(func(s DataShape) bool { return s.Rows >= 60 })},
				{"calendar or daily-activity vocabulary", 3, mentions("calendar", "daily activity", "day of week", "per day")},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("calendar_heatmap", specTitle(opts, titleFor("Calendar", fs.measure(0), fs.time(0))), data, model.Encoding{
					X:     fs.time(0),
					Color: fs.measure(0),
				}, map[string]any{"granularity": "day"})
			},
		},
		{
			ID:       "slope_chart",
			Name:     "Slope Chart",
			Category: CategoryTime,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 1, MinTime: 1, MaxCategories: 20,
			},
			Rules: []Rule{
				{"exactly two periods compare as slopes", 3, shapeIs(func(s DataShape) bool { return s.Rows >= 2 && s.Rows <= 40 })},
				{"change-between-two-points vocabulary", 2, mentions("from", "to", "between", "change")},
			},
			Generate: genSequence("slope_chart", "Slope Chart", true),
		},
	}
}
