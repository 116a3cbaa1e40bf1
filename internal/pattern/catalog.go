package pattern

import (
	"fmt"

	"github.com/plotforge/plotforge/internal/model"
)

// RegisterDefaults registers the full built-in catalog in a deterministic
// order. Insertion order is the tie-break for equal scores, so the order
// here is part of the selection contract: generic workhorse charts first
// within each category, exotic variants after.
func RegisterDefaults(reg *Registry) error {
	groups := [][]*Pattern{
		comparisonPatterns(),
		timePatterns(),
		distributionPatterns(),
		compositionPatterns(),
		relationshipPatterns(),
		flowPatterns(),
		kpiPatterns(),
	}
	for _, group := range groups {
		for _, p := range group {
			if err := reg.Register(p); err != nil {
				return fmt.Errorf("register defaults: %w", err)
			}
		}
	}
	return nil
}

// NewDefaultRegistry builds a registry populated with the built-in
// catalog. Registration of a fixed catalog cannot collide, so failure
// here is a programming error.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	if err := RegisterDefaults(reg); err != nil {
		panic(err)
	}
	return reg
}

// --- rule predicate helpers -------------------------------------------------

func intentIs(category string) func(*Context) bool {
	return func(ctx *Context) bool { return ClassifyIntent(ctx.Intent) == category }
}

func mentions(words ...string) func(*Context) bool {
	return func(ctx *Context) bool { return intentHas(ctx.Intent, words...) }
}

func shapeIs(f func(DataShape) bool) func(*Context) bool {
	return func(ctx *Context) bool { return f(ctx.Shape) }
}

func categoriesBetween(lo, hi int) func(*Context) bool {
	return shapeIs(func(s DataShape) bool { return s.Categories >= lo && s.Categories <= hi })
}

func hasTimeSeries(ctx *Context) bool { return ctx.Shape.HasTimeSeries }

func hasHierarchyLevels(ctx *Context) bool {
	return ctx.Shape.Hierarchies > 0 || ctx.Shape.Dimensions+ctx.Shape.Hierarchies >= 2
}

func multiMeasure(ctx *Context) bool { return ctx.Shape.Measures >= 2 }

func hasNegatives(ctx *Context) bool { return ctx.Shape.HasNegativeValues }

// --- shared generators ------------------------------------------------------

// genCatMeasure encodes a category on x and the first measure on y.
func genCatMeasure(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
			X: fs.dim(0),
			Y: fs.measure(0),
		}, nil)
	}
}

// genCatMeasureSeries adds a second dimension as the color series.
func genCatMeasureSeries(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
			X:     fs.dim(0),
			Y:     fs.measure(0),
			Color: fs.dim(1),
		}, nil)
	}
}

// genSequence encodes a time column (or the primary dimension when no
// time column exists) on x, with an optional series color.
func genSequence(id, name string, withSeries bool) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		enc := model.Encoding{X: fs.xAxis(), Y: fs.measure(0)}
		if withSeries {
			enc.Color = fs.dim(0)
			if enc.Color == enc.X {
				enc.Color = fs.dim(1)
			}
		}
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), enc.X)), data, enc, nil)
	}
}

// genValueOnly encodes a single measure on x (histogram family).
func genValueOnly(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), "")), data, model.Encoding{
			X: fs.measure(0),
		}, nil)
	}
}

// genPerGroupValue encodes a measure per group (box plot family).
func genPerGroupValue(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
			X: fs.dim(0),
			Y: fs.measure(0),
		}, nil)
	}
}

// genPart encodes a part-to-whole chart: angle from the measure, slice
// identity from the category.
func genPart(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
			Theta: fs.measure(0),
			Color: fs.dim(0),
		}, nil)
	}
}

// genHierarchy orders categorical fields by ascending cardinality (fewer
// unique values = outer/parent level) and carries the level list in the
// config for the renderer.
func genHierarchy(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		levels := fs.dims
		config := map[string]any{"levels": levels}
		enc := model.Encoding{Size: fs.measure(0), Color: fs.dim(0), Detail: fs.dim(1)}
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, enc, config)
	}
}

// genScatter encodes two measures against each other, with optional
// category color and a third measure as point size.
func genScatter(id, name string, withSize bool) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		enc := model.Encoding{
			X:     fs.measure(0),
			Y:     fs.measure(1),
			Color: fs.dim(0),
		}
		if withSize {
			enc.Size = fs.measure(2)
		}
		return buildSpec(id, specTitle(opts, fmt.Sprintf("%s: %s vs %s", name, fs.measure(0), fs.measure(1))), data, enc, nil)
	}
}

// genMatrix generates a dense two-dimensional matrix. With two
// categorical columns the rows and columns come straight from them; with
// one categorical and several numeric columns the data is melted into
// long {category, metric, value} form first, so the output row count is
// input rows x numeric columns.
func genMatrix(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		if len(fs.dims) >= 2 {
			return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
				Row:    fs.dim(0),
				Column: fs.dim(1),
				Color:  fs.measure(0),
			}, nil)
		}
		if len(fs.dims) == 1 && len(fs.measures) >= 2 {
			long := Melt(data, fs.dim(0), fs.measures)
			return buildSpec(id, specTitle(opts, titleFor(name, "value", fs.dim(0))), long, model.Encoding{
				Row:    fs.dim(0),
				Column: "metric",
				Color:  "value",
			}, map[string]any{"melted": true})
		}
		return nil
	}
}

// genFlow carries source/target stages in the config; flow renderers read
// them rather than axis encodings.
func genFlow(id, name string) GenerateFunc {
	return func(data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) *model.VisualizationSpec {
		fs := collectFields(cols)
		config := map[string]any{
			"source": fs.dim(0),
			"target": fs.dim(1),
		}
		return buildSpec(id, specTitle(opts, titleFor(name, fs.measure(0), fs.dim(0))), data, model.Encoding{
			Size: fs.measure(0),
		}, config)
	}
}
