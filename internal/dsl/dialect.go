package dsl

import (
	"fmt"
	"strings"
)

// Dialect captures the SQL surface differences between the supported
// engines: identifier quoting, parameter placeholders, date truncation
// syntax, and which aggregates exist natively.
type Dialect struct {
	Name string

	quote       func(string) string
	placeholder func(index int) string

	// dateTrunc renders a bucket expression for the dialect, or reports
	// that the dialect cannot express the bucket natively (which routes
	// the whole query through the in-process evaluator).
	dateTrunc func(bucket, expr string) (string, bool)

	// nativeAggregates are the aggregate functions the engine supports
	// directly. Anything else falls back to in-process evaluation.
	nativeAggregates map[string]bool
}

// QuoteIdentifier quotes a column or table name for this dialect.
func (d Dialect) QuoteIdentifier(name string) string { return d.quote(name) }

// Placeholder returns the bind-parameter marker for the 1-based index.
func (d Dialect) Placeholder(index int) string { return d.placeholder(index) }

func doubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func backtickQuote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func questionPlaceholder(_ int) string { return "?" }

func dollarPlaceholder(index int) string { return fmt.Sprintf("$%d", index) }

// SQLite lacks every statistical aggregate beyond the basics, and its
// date functions cannot express week or quarter truncation cleanly.
var SQLite = Dialect{
	Name:        "sqlite",
	quote:       doubleQuote,
	placeholder: questionPlaceholder,
	dateTrunc: func(bucket, expr string) (string, bool) {
		switch bucket {
		case "day":
			return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", expr), true
		case "month":
			return fmt.Sprintf("strftime('%%Y-%%m', %s)", expr), true
		case "year":
			return fmt.Sprintf("strftime('%%Y', %s)", expr), true
		}
		return "", false
	},
	nativeAggregates: map[string]bool{
		"sum": true, "avg": true, "min": true, "max": true,
		"count": true, "count_distinct": true,
	},
}

// Postgres supports the full aggregate set.
var Postgres = Dialect{
	Name:        "postgres",
	quote:       doubleQuote,
	placeholder: dollarPlaceholder,
	dateTrunc: func(bucket, expr string) (string, bool) {
		switch bucket {
		case "day", "week", "month", "quarter", "year":
			return fmt.Sprintf("date_trunc('%s', %s)", bucket, expr), true
		}
		return "", false
	},
	nativeAggregates: map[string]bool{
		"sum": true, "avg": true, "min": true, "max": true,
		"count": true, "count_distinct": true,
		"stddev": true, "median": true, "p25": true, "p75": true, "percentile": true,
	},
}

// MySQL has stddev but no percentile aggregates, and no clean week or
// quarter truncation.
var MySQL = Dialect{
	Name:        "mysql",
	quote:       backtickQuote,
	placeholder: questionPlaceholder,
	dateTrunc: func(bucket, expr string) (string, bool) {
		switch bucket {
		case "day":
			return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", expr), true
		case "month":
			return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", expr), true
		case "year":
			return fmt.Sprintf("DATE_FORMAT(%s, '%%Y')", expr), true
		}
		return "", false
	},
	nativeAggregates: map[string]bool{
		"sum": true, "avg": true, "min": true, "max": true,
		"count": true, "count_distinct": true, "stddev": true,
	},
}

// DialectFor maps a driver name to its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return SQLite, nil
	case "postgres", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return Dialect{}, fmt.Errorf("unsupported dialect %q (supported: sqlite, postgres, mysql)", driver)
}
