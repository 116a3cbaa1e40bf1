package source

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/plotforge/plotforge/internal/dsl"
	"github.com/plotforge/plotforge/internal/model"
)

// sqlDriverName maps the logical driver name to the registered
// database/sql driver.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	}
	return "", fmt.Errorf("unsupported driver %q (supported: sqlite, postgres, mysql, csv)", driver)
}

// SQLSource serves a live database connection. Queries compile to the
// engine's SQL dialect when it can express them and fall back to the
// in-process evaluator otherwise.
type SQLSource struct {
	name    string
	driver  string
	db      *sqlx.DB
	dialect dsl.Dialect
	exec    *dsl.Executor

	mu     sync.Mutex
	schema *model.DataSchema
}

// OpenSQL connects to a database and verifies the connection.
func OpenSQL(cfg Config) (*SQLSource, error) {
	driverName, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dialect, err := dsl.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driverName, SanitizeDSN(cfg.Driver, cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("connect %s source %q: %w", cfg.Driver, cfg.Name, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &SQLSource{
		name:    cfg.Name,
		driver:  cfg.Driver,
		db:      db,
		dialect: dialect,
		exec:    &dsl.Executor{RowCap: cfg.RowCap},
	}, nil
}

func (s *SQLSource) Name() string   { return s.name }
func (s *SQLSource) Driver() string { return s.driver }

// Schema introspects the database once and caches the result; a
// registered source's schema is treated as stable for its lifetime.
func (s *SQLSource) Schema(ctx context.Context) (*model.DataSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schema != nil {
		return s.schema, nil
	}
	schema, err := introspect(ctx, s.db, s.driver)
	if err != nil {
		return nil, fmt.Errorf("introspect %s source %q: %w", s.driver, s.name, err)
	}
	s.schema = schema
	return schema, nil
}

func (s *SQLSource) Sample(ctx context.Context, table string, limit int) ([]model.Row, error) {
	schema, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if schema.Table(table) == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if limit <= 0 {
		limit = 100
	}
	stmt := "SELECT * FROM " + s.dialect.QuoteIdentifier(table) + " LIMIT " + strconv.Itoa(limit)
	return s.Raw(ctx, stmt)
}

func (s *SQLSource) Query(ctx context.Context, q *dsl.Query, table string) (*model.QueryResult, error) {
	schema, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return s.exec.Execute(ctx, q, schema, table, runner{s.db}, s.dialect)
}

// Raw runs a raw statement and scans rows into maps.
func (s *SQLSource) Raw(ctx context.Context, stmt string, args ...any) ([]model.Row, error) {
	return runner{s.db}.Query(ctx, stmt, args...)
}

func (s *SQLSource) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLSource) Close() error { return s.db.Close() }

// runner adapts sqlx to the executor's Runner interface.
type runner struct {
	db *sqlx.DB
}

func (r runner) Query(ctx context.Context, stmt string, args ...any) ([]model.Row, error) {
	rows, err := r.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		// Drivers hand back []byte for text columns; normalize to string
		// so JSON encoding and the evaluator see plain values.
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, model.Row(row))
	}
	return out, rows.Err()
}
