package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// DefaultAlternatives is how many runner-up patterns a selection returns
// when the caller does not say otherwise.
const DefaultAlternatives = 3

// Options tune a single selection call.
type Options struct {
	// ForcePattern promotes the named pattern to the recommended slot.
	// An unknown id falls back to normal scoring with an explanatory
	// reasoning note.
	ForcePattern string
	// MaxAlternatives caps the runner-up list (default 3).
	MaxAlternatives int
	// Spec is passed through to the chosen patterns' generators.
	Spec SpecOptions
}

// Recommendation is one selected pattern with its materialized spec and
// the reasoning trail that produced its score.
type Recommendation struct {
	Pattern   Summary                  `json:"pattern"`
	Score     float64                  `json:"score"`
	Spec      *model.VisualizationSpec `json:"spec"`
	Reasoning []string                 `json:"reasoning"`
}

// Result is the output of a selection call.
type Result struct {
	Recommended    Recommendation   `json:"recommended"`
	Alternatives   []Recommendation `json:"alternatives"`
	IntentCategory string           `json:"intent_category"`
}

// scored is an ephemeral per-call candidate, discarded once the top-N are
// chosen.
type scored struct {
	pattern   *Pattern
	score     float64
	reasoning []string
	order     int // registry insertion order, the only tie-break
}

// Selector scores registered patterns against data and intent. It is
// stateless beyond the read-only registry, so concurrent calls share
// nothing mutable.
type Selector struct {
	registry *Registry
}

// NewSelector creates a Selector over a populated registry.
func NewSelector(reg *Registry) *Selector {
	return &Selector{registry: reg}
}

// Select evaluates every compatible pattern's rule table and returns the
// top-scoring pattern plus alternatives. It never returns an error:
// degenerate input (no rows, no columns, nothing compatible) produces a
// placeholder recommendation with reasoning explaining the degradation.
func (s *Selector) Select(data []model.Row, cols []model.ClassifiedColumn, intent string, opts Options) *Result {
	shape := BuildShape(data, cols)
	ctx := &Context{
		Data:    data,
		Columns: cols,
		Intent:  strings.ToLower(intent),
		Shape:   shape,
	}
	category := ClassifyIntent(intent)

	maxAlt := opts.MaxAlternatives
	if maxAlt <= 0 {
		maxAlt = DefaultAlternatives
	}

	// Structural pre-filter: incompatible patterns never appear in the
	// output, even as low-score alternatives.
	candidates := s.registry.Compatible(shape)
	ranked := scoreCandidates(candidates, ctx)

	if len(ranked) == 0 {
		return s.degenerateResult(data, cols, category, opts)
	}

	// forcePattern: a known id is promoted to the recommended slot; the
	// alternatives keep coming from the regular scoring pass.
	var forcedNote string
	if opts.ForcePattern != "" {
		if idx := findByID(ranked, opts.ForcePattern); idx >= 0 {
			forced := ranked[idx]
			forced.reasoning = append([]string{fmt.Sprintf("Forced pattern: %s", opts.ForcePattern)}, forced.reasoning...)
			ranked = append([]scored{forced}, append(ranked[:idx:idx], ranked[idx+1:]...)...)
		} else if s.registry.Get(opts.ForcePattern) != nil {
			// Registered but structurally incompatible with this data:
			// force it anyway, the caller insisted.
			p := s.registry.Get(opts.ForcePattern)
			forced := scored{
				pattern:   p,
				reasoning: []string{fmt.Sprintf("Forced pattern: %s", opts.ForcePattern), "pattern forced despite incompatible data shape"},
			}
			ranked = append([]scored{forced}, ranked...)
		} else {
			forcedNote = fmt.Sprintf("Unknown forced pattern: %s", opts.ForcePattern)
		}
	}

	top := ranked[0]
	if forcedNote != "" {
		top.reasoning = append([]string{forcedNote}, top.reasoning...)
	}

	result := &Result{
		Recommended:    s.materialize(top, data, cols, opts.Spec),
		IntentCategory: category,
	}
	for _, alt := range ranked[1:] {
		if len(result.Alternatives) >= maxAlt {
			break
		}
		result.Alternatives = append(result.Alternatives, s.materialize(alt, data, cols, opts.Spec))
	}
	return result
}

// scoreCandidates runs every rule table and sorts by score descending.
// The sort is stable, so equal scores keep registry insertion order; no
// secondary criterion exists.
func scoreCandidates(candidates []*Pattern, ctx *Context) []scored {
	ranked := make([]scored, 0, len(candidates))
	for i, p := range candidates {
		c := scored{pattern: p, order: i}
		for _, rule := range p.Rules {
			if rule.Matches != nil && rule.Matches(ctx) {
				c.score += rule.Weight
				c.reasoning = append(c.reasoning, rule.Condition)
			}
		}
		// Zero matching rules still participates with score 0; only the
		// structural filter excludes.
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked
}

func findByID(ranked []scored, id string) int {
	for i, c := range ranked {
		if c.pattern.ID == id {
			return i
		}
	}
	return -1
}

// materialize generates the spec for a chosen candidate. A generator that
// returns nil (degenerate data it cannot express) degrades to a spec with
// the raw data and no encodings rather than failing the call.
func (s *Selector) materialize(c scored, data []model.Row, cols []model.ClassifiedColumn, opts SpecOptions) Recommendation {
	reasoning := c.reasoning
	if len(reasoning) == 0 {
		reasoning = []string{"no selection rules matched; structurally compatible"}
	}

	var spec *model.VisualizationSpec
	if c.pattern.Generate != nil {
		spec = c.pattern.Generate(data, cols, opts)
	}
	if spec == nil {
		spec = buildSpec(c.pattern.ID, specTitle(opts, c.pattern.Name), data, model.Encoding{}, nil)
		reasoning = append(reasoning, "spec generation degraded: returning unencoded data")
	}

	return Recommendation{
		Pattern:   c.pattern.Summary(),
		Score:     c.score,
		Spec:      spec,
		Reasoning: reasoning,
	}
}

// degenerateResult is the never-throw fallback for input no pattern can
// serve: empty data, empty columns, or an empty registry. Callers must
// always receive something renderable.
func (s *Selector) degenerateResult(data []model.Row, cols []model.ClassifiedColumn, category string, opts Options) *Result {
	p := s.registry.Get("table")
	if p == nil {
		all := s.registry.All()
		if len(all) > 0 {
			p = all[0]
		}
	}

	reasoning := []string{"no pattern is compatible with this data shape; falling back to a plain table"}
	if p == nil {
		// Empty registry: synthesize a placeholder so the contract holds.
		return &Result{
			Recommended: Recommendation{
				Pattern:   Summary{ID: "table", Name: "Table", Category: "table"},
				Spec:      buildSpec("table", specTitle(opts.Spec, "Data"), data, model.Encoding{}, nil),
				Reasoning: reasoning,
			},
			IntentCategory: category,
		}
	}
	return &Result{
		Recommended:    s.materialize(scored{pattern: p, reasoning: reasoning}, data, cols, opts.Spec),
		IntentCategory: category,
	}
}
