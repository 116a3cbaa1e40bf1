package pattern

import (
	"sort"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// fieldSet is the working view spec generators use to pick encoding
// fields. Dimensions are ordered by ascending cardinality, which is also
// the parent-to-child order for hierarchical patterns when no explicit
// hierarchy is declared.
type fieldSet struct {
	measures []string
	dims     []string
	times    []string
	texts    []string
}

func collectFields(cols []model.ClassifiedColumn) fieldSet {
	var fs fieldSet
	type dim struct {
		name   string
		unique int
	}
	var dims []dim
	for _, c := range cols {
		switch c.Role {
		case model.RoleMeasure:
			fs.measures = append(fs.measures, c.Name)
		case model.RoleDimension, model.RoleHierarchy:
			dims = append(dims, dim{c.Name, c.UniqueCount})
		case model.RoleTime:
			fs.times = append(fs.times, c.Name)
		case model.RoleText:
			fs.texts = append(fs.texts, c.Name)
		}
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].unique < dims[j].unique })
	for _, d := range dims {
		fs.dims = append(fs.dims, d.name)
	}
	return fs
}

func (f fieldSet) measure(i int) string {
	if i < len(f.measures) {
		return f.measures[i]
	}
	return ""
}

func (f fieldSet) dim(i int) string {
	if i < len(f.dims) {
		return f.dims[i]
	}
	return ""
}

func (f fieldSet) time(i int) string {
	if i < len(f.times) {
		return f.times[i]
	}
	return ""
}

// xAxis prefers a time column, then a dimension. Most sequenced charts
// want exactly this.
func (f fieldSet) xAxis() string {
	if t := f.time(0); t != "" {
		return t
	}
	return f.dim(0)
}

// dedupeEncoding clears any channel that repeats an already assigned
// field. No two encoding slots may ever reference the same field name in
// one spec; this holds for every generated spec regardless of pattern.
func dedupeEncoding(enc model.Encoding) model.Encoding {
	seen := make(map[string]bool)
	keep := func(field string) string {
		if field == "" || seen[field] {
			return ""
		}
		seen[field] = true
		return field
	}
	enc.X = keep(enc.X)
	enc.Y = keep(enc.Y)
	enc.Y2 = keep(enc.Y2)
	enc.Color = keep(enc.Color)
	enc.Size = keep(enc.Size)
	enc.Detail = keep(enc.Detail)
	enc.Row = keep(enc.Row)
	enc.Column = keep(enc.Column)
	enc.Theta = keep(enc.Theta)
	return enc
}

// buildSpec assembles a VisualizationSpec with the collision invariant
// enforced.
func buildSpec(id, title string, data []model.Row, enc model.Encoding, config map[string]any) *model.VisualizationSpec {
	return &model.VisualizationSpec{
		Pattern:  id,
		Title:    title,
		Data:     data,
		Encoding: dedupeEncoding(enc),
		Config:   config,
	}
}

// specTitle picks the caller-supplied title when present, otherwise the
// generated fallback.
func specTitle(opts SpecOptions, fallback string) string {
	if opts.Title != "" {
		return opts.Title
	}
	return fallback
}

// titleFor builds a readable "Measure by Dimension" style title.
func titleFor(name, measure, dim string) string {
	var b strings.Builder
	b.WriteString(name)
	if measure != "" {
		b.WriteString(": ")
		b.WriteString(measure)
	}
	if dim != "" {
		b.WriteString(" by ")
		b.WriteString(dim)
	}
	return b.String()
}
