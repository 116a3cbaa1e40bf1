package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/plotforge/plotforge/internal/dsl"
	"github.com/plotforge/plotforge/internal/model"
)

// CSVSource serves a CSV file loaded fully into memory. Queries run
// through the in-process evaluator, so the full DSL works against files
// the same way it does against databases.
type CSVSource struct {
	name    string
	table   string
	columns []model.Column
	rows    []model.Row
	exec    *dsl.Executor
}

// OpenCSV loads a CSV file. The table name is the file's base name
// without extension.
func OpenCSV(name, path string, rowCap int) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	table := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewCSV(name, table, f, rowCap)
}

// NewCSV parses CSV data from a reader. The first record is the header.
// Empty cells become nil; cells that parse as numbers become float64.
func NewCSV(name, table string, r io.Reader, rowCap int) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []model.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		row := make(model.Row, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = parseCell(cell)
		}
		rows = append(rows, row)
	}

	return &CSVSource{
		name:    name,
		table:   table,
		columns: InferColumns(rows, header),
		rows:    rows,
		exec:    &dsl.Executor{RowCap: rowCap},
	}, nil
}

func parseCell(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func (c *CSVSource) Name() string   { return c.name }
func (c *CSVSource) Driver() string { return "csv" }

// Table returns the single table name the file is served under.
func (c *CSVSource) Table() string { return c.table }

// Columns returns the inferred column profiles, ready for
// classification.
func (c *CSVSource) Columns() []model.Column { return c.columns }

func (c *CSVSource) Schema(_ context.Context) (*model.DataSchema, error) {
	cols := make([]model.SchemaColumn, len(c.columns))
	for i, col := range c.columns {
		cols[i] = model.SchemaColumn{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: col.NullCount > 0,
		}
	}
	n := int64(len(c.rows))
	return &model.DataSchema{Tables: []model.DataTable{{
		Name:     c.table,
		Columns:  cols,
		RowCount: &n,
	}}}, nil
}

func (c *CSVSource) Sample(_ context.Context, table string, limit int) ([]model.Row, error) {
	if table != c.table {
		return nil, fmt.Errorf("unknown table %q (available: %s)", table, c.table)
	}
	if limit <= 0 || limit > len(c.rows) {
		limit = len(c.rows)
	}
	return c.rows[:limit], nil
}

func (c *CSVSource) Query(ctx context.Context, q *dsl.Query, table string) (*model.QueryResult, error) {
	schema, _ := c.Schema(ctx)
	return c.exec.ExecuteInMemory(q, schema, table, map[string][]model.Row{c.table: c.rows})
}

func (c *CSVSource) Ping(_ context.Context) error { return nil }

func (c *CSVSource) Close() error { return nil }
