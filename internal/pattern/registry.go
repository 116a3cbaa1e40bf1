package pattern

import (
	"fmt"
)

// Registry is the in-memory pattern catalog. It is populated once at
// startup by an explicit composition root (RegisterDefaults) and is
// read-only afterwards, so lookups need no locking.
type Registry struct {
	ordered []*Pattern
	byID    map[string]*Pattern
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Pattern)}
}

// Register adds a pattern. Registration is append-only; a duplicate id is
// a programming error and is rejected.
func (r *Registry) Register(p *Pattern) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("pattern id is required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("pattern %q already registered", p.ID)
	}
	r.byID[p.ID] = p
	r.ordered = append(r.ordered, p)
	return nil
}

// Get returns the pattern with the given id, or nil.
func (r *Registry) Get(id string) *Pattern {
	return r.byID[id]
}

// All returns every registered pattern in stable insertion order.
func (r *Registry) All() []*Pattern {
	out := make([]*Pattern, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByCategory returns the patterns in a category, in insertion order.
func (r *Registry) ByCategory(category string) []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Compatible returns every pattern whose requirements are satisfiable by
// the given shape, in insertion order. Structural filter only: it answers
// "could this pattern possibly work", it does not rank.
func (r *Registry) Compatible(shape DataShape) []*Pattern {
	var out []*Pattern
	for _, p := range r.ordered {
		if p.Requirements.SatisfiedBy(shape) {
			out = append(out, p)
		}
	}
	return out
}

// List returns listing summaries for every pattern, in insertion order.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, p.Summary())
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.ordered {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	return len(r.ordered)
}
