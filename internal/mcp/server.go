package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plotforge/plotforge/internal/cache"
	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/pattern"
	"github.com/plotforge/plotforge/internal/source"
)

// MCPServer wraps the mcp-go server with the chart recommendation and
// query tools. It exposes the same capabilities as the HTTP API so AI
// agents can classify data, pick chart patterns, and run DSL queries.
type MCPServer struct {
	sources    *source.Manager
	registry   *pattern.Registry
	selector   *pattern.Selector
	specs      *cache.SpecStore
	thresholds classify.Thresholds
	sampleRows int
	logger     *slog.Logger
	server     *server.MCPServer
}

// NewMCPServer creates an MCPServer pre-loaded with all tools and
// resources. The returned server is ready to serve over stdio or HTTP.
func NewMCPServer(sources *source.Manager, registry *pattern.Registry, specs *cache.SpecStore, thresholds classify.Thresholds, sampleRows int, logger *slog.Logger) *MCPServer {
	if sampleRows <= 0 {
		sampleRows = 1000
	}
	s := &MCPServer{
		sources:    sources,
		registry:   registry,
		selector:   pattern.NewSelector(registry),
		specs:      specs,
		thresholds: thresholds,
		sampleRows: sampleRows,
		logger:     logger,
	}

	mcpServer := server.NewMCPServer(
		"PlotForge Visualization API",
		"0.1.0",
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// advanced configuration or testing.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode. This is the primary
// integration path for MCP clients that launch the server as a
// subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts the MCP server in Streamable HTTP mode, listening on
// the given address (e.g. ":3001").
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func mutatingAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(false),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
