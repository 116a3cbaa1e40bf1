package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plotforge/plotforge/internal/cache"
	pfmcp "github.com/plotforge/plotforge/internal/mcp"
	"github.com/plotforge/plotforge/internal/pattern"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes chart
recommendation and data querying as tools for AI agents. Supports stdio
(default) and HTTP transports.

In stdio mode, the MCP server communicates over stdin/stdout using JSON-RPC,
suitable for MCP clients that launch the server as a subprocess.

In HTTP mode, the server listens on the specified port.`,
		Example: `  plotforge mcp                            # stdio mode
  plotforge mcp --transport http --port 3001  # HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(transport, port)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().IntVar(&port, "port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}

func runMCP(transport string, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logging goes to stderr; stdout belongs to the protocol.
	logger := newLogger(false)

	sources, err := openSources(cfg, logger)
	if err != nil {
		return err
	}
	defer sources.CloseAll()

	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	specs := cache.NewSpecStore(ttl, cfg.Cache.MaxEntries)
	registry := pattern.NewDefaultRegistry()

	mcpSrv := pfmcp.NewMCPServer(sources, registry, specs, thresholdsFrom(cfg), cfg.Query.SampleRows, logger)

	switch transport {
	case "stdio":
		return mcpSrv.ServeStdio()
	case "http":
		addr := fmt.Sprintf(":%d", port)
		return mcpSrv.ServeHTTP(addr)
	default:
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}
}
