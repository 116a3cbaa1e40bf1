package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotforge",
		Short: "Recommend and render charts for your data",
		Long: `PlotForge classifies your data's columns, scores a catalog of chart
patterns against them, and recommends the visualization that fits. It speaks
SQL (SQLite, PostgreSQL, MySQL) and CSV, runs a declarative aggregation DSL
with identical semantics across engines, and serves both an HTTP API and an
MCP server for AI agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./plotforge.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}
