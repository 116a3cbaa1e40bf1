package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	// -------------------------------------------------------------------
	// plotforge://patterns — the full chart pattern catalog
	// -------------------------------------------------------------------
	srv.AddResource(
		mcp.NewResource(
			"plotforge://patterns",
			"Chart Pattern Catalog",
			mcp.WithResourceDescription(
				"The full catalog of chart patterns with their categories and "+
					"data shape requirements.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handlePatternsResource,
	)

	// -------------------------------------------------------------------
	// plotforge://schema/{source} — full schema for a source (template)
	// -------------------------------------------------------------------
	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"plotforge://schema/{source}",
			"Source Schema",
			mcp.WithTemplateDescription(
				"Full schema for a data source, including tables, columns with "+
					"inferred types, and foreign keys.",
			),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleSchemaResource,
	)
}

// handlePatternsResource returns the pattern catalog as JSON.
func (s *MCPServer) handlePatternsResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	b, err := json.MarshalIndent(s.registry.List(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patterns: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "plotforge://patterns",
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

// handleSchemaResource returns the full schema for a source.
func (s *MCPServer) handleSchemaResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	// Extract source name from URI: "plotforge://schema/{source}"
	uri := request.Params.URI
	sourceName := strings.TrimPrefix(uri, "plotforge://schema/")
	if sourceName == "" || sourceName == uri {
		return nil, fmt.Errorf("invalid schema URI %q: expected plotforge://schema/{source}", uri)
	}

	src, err := s.sources.Get(sourceName)
	if err != nil {
		return nil, fmt.Errorf("source %q not found: %w (available: %v)",
			sourceName, err, s.sources.List())
	}

	schema, err := src.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %q: %w", sourceName, err)
	}

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
