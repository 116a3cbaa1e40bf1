package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/dsl"
	"github.com/plotforge/plotforge/internal/model"
	"github.com/plotforge/plotforge/internal/pattern"
	"github.com/plotforge/plotforge/internal/source"
)

// registerTools registers all MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {

	// ----- Discovery tools -----

	srv.AddTool(
		mcp.NewTool("plotforge_list_sources",
			mcp.WithDescription(
				"List all registered data sources. Returns each source's name and "+
					"driver type (sqlite, postgres, mysql, or csv). Use this first to "+
					"discover available data before querying or recommending charts.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleListSources,
	)

	srv.AddTool(
		mcp.NewTool("plotforge_describe_source",
			mcp.WithDescription(
				"Get the schema of a data source: its tables, columns with inferred "+
					"types, foreign keys, and approximate row counts. Use this to "+
					"understand the data before writing queries.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Name of the data source to describe"),
			),
		),
		s.handleDescribeSource,
	)

	srv.AddTool(
		mcp.NewTool("plotforge_classify_columns",
			mcp.WithDescription(
				"Sample a table and classify each column into a semantic role: "+
					"measure, dimension, time, hierarchy, id, or text. Roles drive "+
					"chart pattern selection; inspect them when a recommendation "+
					"looks off.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Name of the data source"),
			),
			mcp.WithString("table",
				mcp.Required(),
				mcp.Description("Name of the table to classify"),
			),
		),
		s.handleClassifyColumns,
	)

	srv.AddTool(
		mcp.NewTool("plotforge_list_patterns",
			mcp.WithDescription(
				"List the chart pattern catalog: each pattern's id, name, category "+
					"(comparison, trend, distribution, correlation, part-to-whole, "+
					"flow, geo), and the data shape it needs. Optionally filter by "+
					"category.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("category",
				mcp.Description("Only return patterns in this category"),
			),
		),
		s.handleListPatterns,
	)

	srv.AddTool(
		mcp.NewTool("plotforge_register_source",
			mcp.WithDescription(
				"Register a new data source. SQL sources (sqlite, postgres, mysql) "+
					"need a DSN; CSV sources need a file path. Replacing an existing "+
					"name closes the old connection.",
			),
			mcp.WithToolAnnotation(mutatingAnnotation()),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Name to register the source under"),
			),
			mcp.WithString("driver",
				mcp.Required(),
				mcp.Description("Driver: sqlite, postgres, mysql, or csv"),
			),
			mcp.WithString("dsn",
				mcp.Description("Connection string for SQL drivers"),
			),
			mcp.WithString("path",
				mcp.Description("File path for the csv driver"),
			),
		),
		s.handleRegisterSource,
	)

	// ----- Recommendation tool -----

	srv.AddTool(
		mcp.NewTool("plotforge_recommend_chart",
			mcp.WithDescription(
				"Recommend a chart for a dataset. Provide either inline rows via "+
					"'data' or a registered source and table. Columns are classified, "+
					"every compatible pattern is scored, and the best match is "+
					"returned as a complete visualization spec plus ranked "+
					"alternatives with reasoning.\n\n"+
					"The optional 'intent' is a free-text analytical goal (e.g. "+
					"\"compare revenue across regions\", \"show the trend over time\") "+
					"that biases scoring toward the matching category.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("source",
				mcp.Description("Name of a registered data source (omit when passing inline data)"),
			),
			mcp.WithString("table",
				mcp.Description("Table to sample from the source"),
			),
			mcp.WithArray("data",
				mcp.Description("Inline rows as JSON objects (e.g. [{\"region\": \"north\", \"sales\": 100}])"),
			),
			mcp.WithArray("transforms",
				mcp.Description("Derived columns to compute before classification "+
					"(e.g. [{\"name\": \"margin\", \"op\": \"subtract\", \"field\": \"price\", \"other\": \"cost\"}]; "+
					"ops: add, subtract, multiply, divide, ratio, bucket)"),
			),
			mcp.WithString("intent",
				mcp.Description("Free-text analytical intent"),
			),
			mcp.WithString("force_pattern",
				mcp.Description("Pattern id to promote to the recommended slot regardless of score"),
			),
			mcp.WithNumber("max_alternatives",
				mcp.Description("Maximum number of runner-up patterns to return (default 3)"),
			),
			mcp.WithString("title",
				mcp.Description("Title for the generated spec"),
			),
		),
		s.handleRecommendChart,
	)

	// ----- Query tool -----

	srv.AddTool(
		mcp.NewTool("plotforge_query_data",
			mcp.WithDescription(
				"Run a declarative aggregation query against a source's table. "+
					"The query object supports:\n"+
					"  - select: fields, aggregates (sum, avg, min, max, count, "+
					"count_distinct, median, p25, p75, stddev, percentile), and "+
					"window functions (lag, lead, rank, dense_rank, row_number, "+
					"running_sum, running_avg, pct_of_total)\n"+
					"  - groupBy: plain fields or time buckets "+
					"({\"field\": \"sold_at\", \"bucket\": \"month\"})\n"+
					"  - filter/having: conditions with =, !=, >, >=, <, <=, in, "+
					"not_in, between, is_null, is_not_null\n"+
					"  - join: one inner or left join\n"+
					"  - orderBy and limit\n\n"+
					"Example: {\"select\": [{\"field\": \"amount\", \"aggregate\": \"sum\", "+
					"\"alias\": \"total\"}, {\"field\": \"region\"}], \"groupBy\": [\"region\"]}",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Name of the data source"),
			),
			mcp.WithString("table",
				mcp.Required(),
				mcp.Description("Name of the table to query"),
			),
			mcp.WithObject("query",
				mcp.Required(),
				mcp.Description("The declarative query object"),
			),
		),
		s.handleQueryData,
	)
}

// =========================================================================
// Tool handlers
// =========================================================================

// handleListSources returns all registered sources.
func (s *MCPServer) handleListSources(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	type sourceInfo struct {
		Name   string `json:"name"`
		Driver string `json:"driver"`
	}

	names := s.sources.List()
	items := make([]sourceInfo, 0, len(names))
	for _, name := range names {
		src, err := s.sources.Get(name)
		if err != nil {
			continue
		}
		items = append(items, sourceInfo{Name: name, Driver: src.Driver()})
	}

	return successJSON(items)
}

// handleDescribeSource returns the introspected schema for a source.
func (s *MCPServer) handleDescribeSource(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	name, err := requireString(request, "source")
	if err != nil {
		return toolError("%v. Available sources: %v", err, s.sources.List())
	}

	src, err := s.sources.Get(name)
	if err != nil {
		return toolError("Source %q not found. Available sources: %v", name, s.sources.List())
	}

	schema, err := src.Schema(ctx)
	if err != nil {
		return toolError("Failed to read schema for %q: %v", name, err)
	}

	return successJSON(schema)
}

// handleClassifyColumns samples a table and returns classified columns.
func (s *MCPServer) handleClassifyColumns(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	sourceName, err := requireString(request, "source")
	if err != nil {
		return toolError("%v. Available sources: %v", err, s.sources.List())
	}
	tableName, err := requireString(request, "table")
	if err != nil {
		return toolError("%v", err)
	}

	src, err := s.sources.Get(sourceName)
	if err != nil {
		return toolError("Source %q not found. Available sources: %v", sourceName, s.sources.List())
	}

	rows, names, err := s.sampleTable(ctx, src, tableName)
	if err != nil {
		// Provide available table names so the LLM can self-correct.
		if schema, serr := src.Schema(ctx); serr == nil {
			return toolError("Failed to sample %q: %v\n\nAvailable tables: %v",
				tableName, err, tableNames(schema))
		}
		return toolError("Failed to sample %q: %v", tableName, err)
	}

	cols := classify.ColumnsWith(source.InferColumns(rows, names), s.thresholds)
	return successJSON(cols)
}

// handleRegisterSource opens and registers a new source.
func (s *MCPServer) handleRegisterSource(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	name, err := requireString(request, "name")
	if err != nil {
		return toolError("%v", err)
	}
	driver, err := requireString(request, "driver")
	if err != nil {
		return toolError("%v", err)
	}

	cfg := source.Config{
		Name:   name,
		Driver: driver,
		DSN:    optionalString(request, "dsn"),
		Path:   optionalString(request, "path"),
	}
	if err := s.sources.Open(cfg); err != nil {
		return toolError("Failed to open source %q: %v", name, err)
	}

	s.logger.Info("source registered via MCP", "name", name, "driver", driver)
	return successJSON(map[string]any{"name": name, "driver": driver, "registered": true})
}

// handleListPatterns returns the pattern catalog, optionally filtered.
func (s *MCPServer) handleListPatterns(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	if category := optionalString(request, "category"); category != "" {
		patterns := s.registry.ByCategory(category)
		if len(patterns) == 0 {
			return toolError("No patterns in category %q. Categories: %v",
				category, s.registry.Categories())
		}
		items := make([]pattern.Summary, len(patterns))
		for i, p := range patterns {
			items[i] = p.Summary()
		}
		return successJSON(items)
	}

	return successJSON(s.registry.List())
}

// handleRecommendChart classifies the data and scores the catalog.
func (s *MCPServer) handleRecommendChart(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	rows, names, errResult := s.resolveData(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if raw := getObjectSliceArg(request, "transforms"); len(raw) > 0 {
		var transforms []dsl.Transform
		payload, err := json.Marshal(raw)
		if err == nil {
			err = json.Unmarshal(payload, &transforms)
		}
		if err != nil {
			return toolError("Invalid transforms: %v", err)
		}
		if err := dsl.ApplyTransforms(rows, transforms); err != nil {
			return toolError("Invalid transforms: %v", err)
		}
		for _, t := range transforms {
			names = append(names, t.Name)
		}
	}

	cols := classify.ColumnsWith(source.InferColumns(rows, names), s.thresholds)
	result := s.selector.Select(rows, cols, optionalString(request, "intent"), pattern.Options{
		ForcePattern:    optionalString(request, "force_pattern"),
		MaxAlternatives: optionalInt(request, "max_alternatives", 0),
		Spec:            pattern.SpecOptions{Title: optionalString(request, "title")},
	})

	return successJSON(map[string]any{
		"spec_id":         s.specs.Save(result.Recommended.Spec),
		"recommended":     result.Recommended,
		"alternatives":    result.Alternatives,
		"intent_category": result.IntentCategory,
		"columns":         cols,
	})
}

// resolveData loads the rows a recommendation runs over: inline data
// wins, otherwise the named source's table is sampled. A non-nil third
// return is a ready tool error.
func (s *MCPServer) resolveData(ctx context.Context, request mcp.CallToolRequest) ([]model.Row, []string, *mcp.CallToolResult) {
	if raw := getObjectSliceArg(request, "data"); len(raw) > 0 {
		rows := make([]model.Row, len(raw))
		for i, m := range raw {
			rows[i] = model.Row(m)
		}
		return rows, rowColumnNames(rows), nil
	}

	sourceName := optionalString(request, "source")
	tableName := optionalString(request, "table")
	if sourceName == "" || tableName == "" {
		res := mcp.NewToolResultError(
			"Provide either inline 'data' or both 'source' and 'table'. " +
				"Use plotforge_list_sources to see what is registered.")
		return nil, nil, res
	}

	src, err := s.sources.Get(sourceName)
	if err != nil {
		res := mcp.NewToolResultError(
			"Source " + sourceName + " not found. Use plotforge_list_sources to see what is registered.")
		return nil, nil, res
	}

	rows, names, err := s.sampleTable(ctx, src, tableName)
	if err != nil {
		res := mcp.NewToolResultError("Failed to sample " + tableName + ": " + err.Error())
		return nil, nil, res
	}
	return rows, names, nil
}

// sampleTable samples up to sampleRows rows and resolves column names,
// preferring the schema's declared order.
func (s *MCPServer) sampleTable(ctx context.Context, src source.Source, table string) ([]model.Row, []string, error) {
	rows, err := src.Sample(ctx, table, s.sampleRows)
	if err != nil {
		return nil, nil, err
	}
	if schema, err := src.Schema(ctx); err == nil {
		if t := schema.Table(table); t != nil {
			return rows, t.ColumnNames(), nil
		}
	}
	return rows, rowColumnNames(rows), nil
}

// handleQueryData runs a DSL query against a source.
func (s *MCPServer) handleQueryData(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	sourceName, err := requireString(request, "source")
	if err != nil {
		return toolError("%v. Available sources: %v", err, s.sources.List())
	}
	tableName, err := requireString(request, "table")
	if err != nil {
		return toolError("%v", err)
	}
	rawQuery := getObjectArg(request, "query")
	if rawQuery == nil {
		return toolError("missing required parameter %q", "query")
	}

	var q dsl.Query
	payload, err := json.Marshal(rawQuery)
	if err != nil {
		return toolError("Invalid query object: %v", err)
	}
	if err := json.Unmarshal(payload, &q); err != nil {
		return toolError("Invalid query object: %v", err)
	}

	src, err := s.sources.Get(sourceName)
	if err != nil {
		return toolError("Source %q not found. Available sources: %v", sourceName, s.sources.List())
	}

	res, err := src.Query(ctx, &q, tableName)
	if err != nil {
		// Validation errors carry the field and the valid alternatives,
		// so the LLM can fix the query and retry.
		return toolError("Query failed: %v", err)
	}

	return successJSON(res)
}

// tableNames lists a schema's table names.
func tableNames(schema *model.DataSchema) []string {
	names := make([]string, len(schema.Tables))
	for i, t := range schema.Tables {
		names[i] = t.Name
	}
	return names
}
