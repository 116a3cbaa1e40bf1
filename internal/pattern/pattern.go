// Package pattern implements the chart pattern catalog and the scoring
// engine that recommends a pattern for a dataset and an intent string.
package pattern

import (
	"github.com/plotforge/plotforge/internal/model"
)

// DataRequirements are the structural constraints a dataset must satisfy
// before a pattern is even considered. They are a hard pre-filter, not a
// scoring signal: an incompatible pattern never appears in results.
// Zero max values mean unbounded.
type DataRequirements struct {
	MinRows       int
	MaxRows       int
	MinMeasures   int
	MaxMeasures   int
	MinDimensions int
	MaxDimensions int
	MinTime       int
	MinCategories int
	MaxCategories int
}

// SatisfiedBy reports whether a data shape could possibly work for these
// requirements. Dimension counts include hierarchy columns, which are
// grouping keys for every chart that wants a dimension.
func (r DataRequirements) SatisfiedBy(s DataShape) bool {
	if s.Rows < r.MinRows {
		return false
	}
	if r.MaxRows > 0 && s.Rows > r.MaxRows {
		return false
	}
	if s.Measures < r.MinMeasures {
		return false
	}
	if r.MaxMeasures > 0 && s.Measures > r.MaxMeasures {
		return false
	}
	dims := s.Dimensions + s.Hierarchies
	if dims < r.MinDimensions {
		return false
	}
	if r.MaxDimensions > 0 && dims > r.MaxDimensions {
		return false
	}
	if s.TimeColumns < r.MinTime {
		return false
	}
	if r.MinCategories > 0 && s.Categories < r.MinCategories {
		return false
	}
	if r.MaxCategories > 0 && dims > 0 && s.Categories > r.MaxCategories {
		return false
	}
	return true
}

// Rule is one weighted selection predicate. Condition is the
// human-readable description appended to a candidate's reasoning when the
// rule matches. Weights may be negative (penalties).
type Rule struct {
	Condition string
	Weight    float64
	Matches   func(*Context) bool
}

// Context is the ephemeral, read-only value each rule receives. Built once
// per selection call and never mutated afterwards.
type Context struct {
	Data    []model.Row
	Columns []model.ClassifiedColumn
	Intent  string // lowercased
	Shape   DataShape
}

// SpecOptions are pass-through options for spec generation.
type SpecOptions struct {
	Title     string
	GeoLevel  string
	GeoRegion string
	Extra     map[string]any
}

// GenerateFunc materializes a VisualizationSpec for a pattern.
type GenerateFunc func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec

// Pattern is one catalog entry: a chart type with its structural
// requirements, its selection rule table, and its spec generator.
type Pattern struct {
	ID           string
	Name         string
	Category     string
	Requirements DataRequirements
	Rules        []Rule
	Generate     GenerateFunc
}

// Summary is the externally visible slice of a Pattern (listing tools and
// API responses use it; rule predicates and generators stay internal).
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Summary returns the pattern's listing view.
func (p *Pattern) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Category: p.Category}
}
