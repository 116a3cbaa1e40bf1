package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plotforge/plotforge/internal/dsl"
)

func newQueryCmd() *cobra.Command {
	var (
		file       string
		sourceName string
		table      string
		queryJSON  string
		queryFile  string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a declarative query against a source",
		Long: `Run an aggregation query and print the result as JSON. The query is the
same declarative object the HTTP API accepts: select fields with aggregates
and window functions, groupBy with time buckets, filter, having, orderBy,
limit, and one optional join.`,
		Example: `  plotforge query --file sales.csv --query '{"select":[{"field":"amount","aggregate":"sum"},{"field":"region"}],"groupBy":["region"]}'
  plotforge query --source warehouse --table orders --query-file q.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, file, sourceName, table, queryJSON, queryFile)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to query")
	cmd.Flags().StringVar(&sourceName, "source", "", "Registered source name")
	cmd.Flags().StringVar(&table, "table", "", "Table to query (required with --source)")
	cmd.Flags().StringVarP(&queryJSON, "query", "q", "", "Query as a JSON string")
	cmd.Flags().StringVar(&queryFile, "query-file", "", "Read the query from a JSON file")

	return cmd
}

func runQuery(cmd *cobra.Command, file, sourceName, table, queryJSON, queryFile string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(false)

	payload := []byte(queryJSON)
	if queryFile != "" {
		payload, err = os.ReadFile(queryFile)
		if err != nil {
			return fmt.Errorf("reading query file: %w", err)
		}
	}
	if len(payload) == 0 {
		return fmt.Errorf("either --query or --query-file is required")
	}

	var q dsl.Query
	if err := json.Unmarshal(payload, &q); err != nil {
		return fmt.Errorf("parsing query: %w", err)
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

	res, err := src.Query(context.Background(), &q, table)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
