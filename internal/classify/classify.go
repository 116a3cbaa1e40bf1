// Package classify assigns semantic roles to data columns. The role drives
// everything downstream: pattern selection reads roles, not raw types.
package classify

import (
	"regexp"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// Thresholds are the tunable cardinality cutoffs used during
// classification. The exact values are empirical; their relative ordering
// is what matters (a strict name match overrides cardinality, high
// cardinality signals "text" or a child hierarchy level).
type Thresholds struct {
	// WeakIDUnique is the minimum unique/total ratio for a weak id-name
	// match (order_no, row_number) to classify as id.
	WeakIDUnique float64
	// TextUnique is the unique/total ratio above which a categorical
	// column behaves like free text rather than a grouping key.
	TextUnique float64
	// HierarchyRatio is the minimum child/parent cardinality ratio for a
	// dimension to be promoted to a hierarchy child level.
	HierarchyRatio float64
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WeakIDUnique:   0.5,
		TextUnique:     0.85,
		HierarchyRatio: 2.0,
	}
}

// Identifier name detection is separator-insensitive: underscores, spaces,
// and dots are all treated as word boundaries.
var (
	strongIDName = regexp.MustCompile(`(?:^|_)(?:id|pk)$`)
	weakIDName   = regexp.MustCompile(`(?:^|_)(?:no|num|number|index|idx)$`)
	separators   = regexp.MustCompile(`[\s.\-]+`)
)

func normalizeName(name string) string {
	return separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// Columns classifies every column independently, then runs the hierarchy
// pass over the full set. Pure and order-preserving: calling it twice on
// the same input yields identical output.
func Columns(cols []model.Column) []model.ClassifiedColumn {
	return ColumnsWith(cols, DefaultThresholds())
}

// ColumnsWith classifies with explicit thresholds.
func ColumnsWith(cols []model.Column, th Thresholds) []model.ClassifiedColumn {
	out := make([]model.ClassifiedColumn, 0, len(cols))
	for _, c := range cols {
		out = append(out, model.ClassifiedColumn{Column: c, Role: roleFor(c, th)})
	}
	promoteHierarchies(out, th)
	return out
}

// roleFor assigns the provisional single-column role. Id detection has
// priority over measure/dimension assignment.
func roleFor(c model.Column, th Thresholds) model.Role {
	switch c.Type {
	case model.TypeID:
		return model.RoleID

	case model.TypeNumeric:
		if c.TotalCount > 0 && c.UniqueCount == c.TotalCount {
			return model.RoleID
		}
		name := normalizeName(c.Name)
		if strongIDName.MatchString(name) {
			return model.RoleID
		}
		if weakIDName.MatchString(name) && highCardinality(c, th.WeakIDUnique) {
			return model.RoleID
		}
		return model.RoleMeasure

	case model.TypeDate:
		return model.RoleTime

	case model.TypeText:
		return model.RoleText

	case model.TypeCategorical:
		if highCardinality(c, th.TextUnique) {
			return model.RoleText
		}
		return model.RoleDimension
	}
	return model.RoleText
}

func highCardinality(c model.Column, ratio float64) bool {
	return c.TotalCount > 0 && float64(c.UniqueCount) > ratio*float64(c.TotalCount)
}

// promoteHierarchies reclassifies higher-cardinality dimensions as
// hierarchy children when a substantially lower-cardinality dimension
// exists alongside them (lower = parent, higher = child). Cardinality ties
// keep the dimension role.
func promoteHierarchies(cols []model.ClassifiedColumn, th Thresholds) {
	minUnique := -1
	dims := 0
	for _, c := range cols {
		if c.Role != model.RoleDimension {
			continue
		}
		dims++
		if minUnique < 0 || c.UniqueCount < minUnique {
			minUnique = c.UniqueCount
		}
	}
	if dims < 2 || minUnique <= 0 {
		return
	}
	for i := range cols {
		if cols[i].Role != model.RoleDimension {
			continue
		}
		if float64(cols[i].UniqueCount) >= th.HierarchyRatio*float64(minUnique) {
			cols[i].Role = model.RoleHierarchy
		}
	}
}
