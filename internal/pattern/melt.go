package pattern

import (
	"github.com/plotforge/plotforge/internal/model"
)

// Melt reshapes wide-format data (one row per category, many numeric
// columns) into long format: one {category, metric, value} row per
// original-row x metric pair. The output row count is always
// len(data) * len(metrics).
//
// Heatmap-style patterns over one categorical and several numeric columns
// depend on this before assigning row/column/value encodings.
func Melt(data []model.Row, category string, metrics []string) []model.Row {
	out := make([]model.Row, 0, len(data)*len(metrics))
	for _, row := range data {
		for _, m := range metrics {
			value, _ := numericValue(row[m])
			out = append(out, model.Row{
				category: row[category],
				"metric": m,
				"value":  value,
			})
		}
	}
	return out
}
