package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/pattern"
	"github.com/plotforge/plotforge/internal/render"
	"github.com/plotforge/plotforge/internal/source"
)

func newRecommendCmd() *cobra.Command {
	var (
		file         string
		sourceName   string
		table        string
		intent       string
		title        string
		forcePattern string
		alternatives int
		htmlOut      bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend a chart for a dataset",
		Long: `Classify a dataset's columns, score the chart pattern catalog, and print
the recommended visualization spec as JSON (or a self-contained HTML page
with --html).

Data comes from a CSV file (--file) or from a source registered in the
configured manifest (--source plus --table).`,
		Example: `  plotforge recommend --file sales.csv --intent "compare revenue by region"
  plotforge recommend --source warehouse --table orders --html > chart.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, file, sourceName, table, intent, title, forcePattern, alternatives, htmlOut)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to analyze")
	cmd.Flags().StringVar(&sourceName, "source", "", "Registered source name")
	cmd.Flags().StringVar(&table, "table", "", "Table to sample (required with --source)")
	cmd.Flags().StringVar(&intent, "intent", "", "Free-text analytical intent")
	cmd.Flags().StringVar(&title, "title", "", "Title for the generated spec")
	cmd.Flags().StringVar(&forcePattern, "pattern", "", "Force a specific pattern id")
	cmd.Flags().IntVar(&alternatives, "alternatives", 0, "Number of runner-up patterns to include")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Emit a standalone HTML page instead of JSON")

	return cmd
}

func runRecommend(cmd *cobra.Command, file, sourceName, table, intent, title, forcePattern string, alternatives int, htmlOut bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(false)
	if alternatives == 0 {
		alternatives = cfg.Recommend.MaxAlternatives
	}

	manager, err := openSources(cfg, logger)
	if err != nil {
		return err
	}
	defer manager.CloseAll()

	src, derivedTable, err := resolveSource(manager, sourceName, file, cfg.Query.RowCap)
	if err != nil {
		return err
	}
	if table == "" {
		table = derivedTable
	}
	if table == "" {
		return fmt.Errorf("--table is required with --source")
	}

	ctx := context.Background()
	rows, err := src.Sample(ctx, table, cfg.Query.SampleRows)
	if err != nil {
		return fmt.Errorf("sampling %s: %w", table, err)
	}

	var names []string
	if schema, err := src.Schema(ctx); err == nil {
		if t := schema.Table(table); t != nil {
			names = t.ColumnNames()
		}
	}

	cols := classify.ColumnsWith(source.InferColumns(rows, names), thresholdsFrom(cfg))
	selector := pattern.NewSelector(pattern.NewDefaultRegistry())
	result := selector.Select(rows, cols, intent, pattern.Options{
		ForcePattern:    forcePattern,
		MaxAlternatives: alternatives,
		Spec:            pattern.SpecOptions{Title: title},
	})

	if htmlOut {
		page, err := render.NewRegistry().HTML(result.Recommended.Spec)
		if err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), page)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"recommended":     result.Recommended,
		"alternatives":    result.Alternatives,
		"intent_category": result.IntentCategory,
		"columns":         cols,
	})
}
