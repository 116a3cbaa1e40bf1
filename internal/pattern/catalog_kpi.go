package pattern

import "github.com/plotforge/plotforge/internal/model"

func kpiPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "big_number",
			Name:     "Big Number",
			Category: "kpi",
			Requirements: DataRequirements{
				MinRows: 1, MaxRows: 1, MinMeasures: 1,
			},
			Rules: []Rule{
				{"a single value is the whole story", 3, shapeIs(func(s DataShape) bool { return s.Rows == 1 && s.Measures >= 1 })},
				{"kpi or headline vocabulary", 2, mentions("kpi", "total", "single number", "headline", "how many", "how much")},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("big_number", specTitle(opts, titleFor("Big Number", fs.measure(0), "")), data, model.Encoding{
					Y: fs.measure(0),
				}, nil)
			},
		},
		{
			ID:       "gauge",
			Name:     "Gauge",
			Category: "kpi",
			Requirements: DataRequirements{
				MinRows: 1, MaxRows: 1, MinMeasures: 1,
			},
			Rules: []Rule{
				{"progress toward a target arcs as a gauge", 3, mentions("gauge", "progress", "utilization", "capacity", "of target")},
				{"single row with one or two measures", 1, shapeIs(func(s DataShape) bool { return s.Rows == 1 })},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				fs := collectFields(cols)
				return buildSpec("gauge", specTitle(opts, titleFor("Gauge", fs.measure(0), "")), data, model.Encoding{
					Theta: fs.measure(0),
				}, nil)
			},
		},
		{
			// The universal fallback: no structural requirements, so the
			// degenerate path always has at least one compatible pattern.
			ID:       "table",
			Name:     "Table",
			Category: "table",
			Rules: []Rule{
				{"tabular vocabulary asks for the raw rows", 3, mentions("table", "list", "rows", "records", "raw data", "show me the data")},
				{"text-heavy data resists charting", 2, shapeIs(func(s DataShape) bool { return s.TextColumns > 0 && s.Measures == 0 })},
			},
			Generate: func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
				names := make([]string, len(cols))
				for i, c := range cols {
					names[i] = c.Name
				}
				return buildSpec("table", specTitle(opts, "Data"), data, model.Encoding{}, map[string]any{"columns": names})
			},
		},
	}
}
