// Package source manages the registered data sources: SQL databases
// reached through database/sql drivers, and CSV files loaded into
// memory. A source exposes its schema, sample rows for column
// classification, and query execution.
package source

import (
	"context"
	"time"

	"github.com/plotforge/plotforge/internal/dsl"
	"github.com/plotforge/plotforge/internal/model"
)

// Source is the interface every data source implements.
type Source interface {
	// Name is the registered source name, unique within a Manager.
	Name() string

	// Driver identifies the backing driver: sqlite, postgres, mysql, csv.
	Driver() string

	// Schema introspects the source's tables and columns.
	Schema(ctx context.Context) (*model.DataSchema, error)

	// Sample returns up to limit rows from a table, for column
	// classification and previews.
	Sample(ctx context.Context, table string, limit int) ([]model.Row, error)

	// Query validates and executes a query against a table.
	Query(ctx context.Context, q *dsl.Query, table string) (*model.QueryResult, error)

	// Ping verifies the source is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Config holds the connection parameters for one source.
type Config struct {
	Name   string `yaml:"name" json:"name"`
	Driver string `yaml:"driver" json:"driver"`

	// DSN for SQL drivers; Path for file-backed sources.
	DSN  string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	MaxOpenConns    int           `yaml:"max_open_conns,omitempty" json:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty"`

	// RowCap bounds query results. Zero means the executor default.
	RowCap int `yaml:"row_cap,omitempty" json:"row_cap,omitempty"`
}
