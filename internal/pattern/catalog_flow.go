package pattern

func flowPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:       "sankey",
			Name:     "Sankey Diagram",
			Category: CategoryFlow,
			Requirements: DataRequirements{
				MinRows: 2, MinMeasures: 1, MinDimensions: 2,
			},
			Rules: []Rule{
				{"flow intent between source and target stages", 3, intentIs(CategoryFlow)},
				{"two dimensions act as flow endpoints", 2, shapeIs(func(s DataShape) bool { return s.Dimensions+s.Hierarchies >= 2 })},
				{"sankey or transfer vocabulary", 2, mentions("sankey", "transfer", "from", "to")},
				{"time series reads as a trend, not a flow", -2, hasTimeSeries},
			},
			Generate: genFlow("sankey", "Sankey"),
		},
		{
			ID:       "chord",
			Name:     "Chord Diagram",
			Category: CategoryFlow,
			Requirements: DataRequirements{
				MinRows: 3, MinMeasures: 1, MinDimensions: 2, MaxCategories: 20,
			},
			Rules: []Rule{
				{"bidirectional flows between peers wrap around a circle", 2, mentions("chord", "mutual", "bidirectional", "between groups")},
				{"flow intent", 1, intentIs(CategoryFlow)},
			},
			Generate: genFlow("chord", "Chord Diagram"),
		},
		{
			ID:       "network",
			Name:     "Network Graph",
			Category: CategoryFlow,
			Requirements: DataRequirements{
				MinRows: 3, MinDimensions: 2,
			},
			Rules: []Rule{
				{"node-edge vocabulary forms a graph", 3, mentions("network", "graph", "connection", "node", "edge", "link")},
				{"flow intent", 1, intentIs(CategoryFlow)},
			},
			Generate: genFlow("network", "Network Graph"),
		},
	}
}
