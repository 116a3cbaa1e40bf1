package cache

import (
	"time"

	"github.com/plotforge/plotforge/internal/model"
)

// SpecStore holds generated visualization specs by id, so a client can
// recommend once and re-fetch or render the chosen spec later without
// re-running selection.
type SpecStore struct {
	c *Cache
}

// NewSpecStore creates a SpecStore with the given bounds.
func NewSpecStore(ttl time.Duration, max int) *SpecStore {
	return &SpecStore{c: New(ttl, max)}
}

// Save stores a spec and returns its id.
func (s *SpecStore) Save(spec *model.VisualizationSpec) string {
	return s.c.Add(spec)
}

// Update replaces the spec under an existing id, refreshing its age.
func (s *SpecStore) Update(id string, spec *model.VisualizationSpec) {
	s.c.Put(id, spec)
}

// Get returns a stored spec by id.
func (s *SpecStore) Get(id string) (*model.VisualizationSpec, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*model.VisualizationSpec), true
}

// Delete removes a spec.
func (s *SpecStore) Delete(id string) bool { return s.c.Delete(id) }

// Sweep drops expired specs.
func (s *SpecStore) Sweep() int { return s.c.Sweep() }

// ResultCache memoizes query results by a caller-computed key, usually
// a hash of the source, table, and query.
type ResultCache struct {
	c *Cache
}

// NewResultCache creates a ResultCache with the given bounds.
func NewResultCache(ttl time.Duration, max int) *ResultCache {
	return &ResultCache{c: New(ttl, max)}
}

// Put stores a result under its key.
func (r *ResultCache) Put(key string, res *model.QueryResult) { r.c.Put(key, res) }

// Get returns a cached result.
func (r *ResultCache) Get(key string) (*model.QueryResult, bool) {
	v, ok := r.c.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*model.QueryResult), true
}

// Sweep drops expired results.
func (r *ResultCache) Sweep() int { return r.c.Sweep() }
