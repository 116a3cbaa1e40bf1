package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/plotforge/plotforge/internal/cache"
	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/dsl"
	"github.com/plotforge/plotforge/internal/model"
	"github.com/plotforge/plotforge/internal/pattern"
	"github.com/plotforge/plotforge/internal/render"
	"github.com/plotforge/plotforge/internal/source"
)

// Handler implements the HTTP API: recommendation, queries, pattern
// listing, source management, and spec retrieval.
type Handler struct {
	sources    *source.Manager
	registry   *pattern.Registry
	selector   *pattern.Selector
	specs      *cache.SpecStore
	results    *cache.ResultCache
	renderer   *render.Registry
	thresholds classify.Thresholds
	sampleRows int
}

// NewHandler wires a Handler over its collaborators.
func NewHandler(sources *source.Manager, registry *pattern.Registry, specs *cache.SpecStore, results *cache.ResultCache, renderer *render.Registry, thresholds classify.Thresholds, sampleRows int) *Handler {
	if sampleRows <= 0 {
		sampleRows = 1000
	}
	return &Handler{
		sources:    sources,
		registry:   registry,
		selector:   pattern.NewSelector(registry),
		specs:      specs,
		results:    results,
		renderer:   renderer,
		thresholds: thresholds,
		sampleRows: sampleRows,
	}
}

// recommendRequest asks for a chart recommendation, either over inline
// rows or over a registered source's table.
type recommendRequest struct {
	Source string      `json:"source,omitempty"`
	Table  string      `json:"table,omitempty"`
	Data   []model.Row `json:"data,omitempty"`

	// Transforms derive extra columns before classification.
	Transforms []dsl.Transform `json:"transforms,omitempty"`

	Intent          string `json:"intent,omitempty"`
	ForcePattern    string `json:"forcePattern,omitempty"`
	MaxAlternatives int    `json:"maxAlternatives,omitempty"`
	Title           string `json:"title,omitempty"`
}

type recommendResponse struct {
	OK             bool                     `json:"ok"`
	SpecID         string                   `json:"spec_id"`
	Recommended    pattern.Recommendation   `json:"recommended"`
	Alternatives   []pattern.Recommendation `json:"alternatives,omitempty"`
	IntentCategory string                   `json:"intent_category"`
	Columns        []model.ClassifiedColumn `json:"columns"`
}

// Recommend classifies the data's columns, scores the pattern catalog,
// and returns the recommended spec plus alternatives. The recommended
// spec is stored and addressable by spec_id.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rows, names, err := h.resolveRows(r, &req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	if len(req.Transforms) > 0 {
		if err := dsl.ApplyTransforms(rows, req.Transforms); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, t := range req.Transforms {
			names = append(names, t.Name)
		}
	}

	cols := classify.ColumnsWith(source.InferColumns(rows, names), h.thresholds)
	result := h.selector.Select(rows, cols, req.Intent, pattern.Options{
		ForcePattern:    req.ForcePattern,
		MaxAlternatives: req.MaxAlternatives,
		Spec:            pattern.SpecOptions{Title: req.Title},
	})

	writeJSON(w, http.StatusOK, recommendResponse{
		OK:             true,
		SpecID:         h.specs.Save(result.Recommended.Spec),
		Recommended:    result.Recommended,
		Alternatives:   result.Alternatives,
		IntentCategory: result.IntentCategory,
		Columns:        cols,
	})
}

// resolveRows loads the rows and column names the recommendation runs
// over: inline data wins, otherwise the named source's table is sampled.
func (h *Handler) resolveRows(r *http.Request, req *recommendRequest) ([]model.Row, []string, error) {
	if len(req.Data) > 0 {
		return req.Data, rowColumnNames(req.Data), nil
	}

	src, err := h.sources.Get(req.Source)
	if err != nil {
		return nil, nil, err
	}
	rows, err := src.Sample(r.Context(), req.Table, h.sampleRows)
	if err != nil {
		return nil, nil, err
	}

	// Keep the schema's declared column order when we have it.
	if schema, err := src.Schema(r.Context()); err == nil {
		if t := schema.Table(req.Table); t != nil {
			return rows, t.ColumnNames(), nil
		}
	}
	return rows, rowColumnNames(rows), nil
}

// rowColumnNames collects column names across rows, first appearance
// first, keys within a row sorted for determinism.
func rowColumnNames(rows []model.Row) []string {
	var names []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}

// queryRequest runs a DSL query against a source's table.
type queryRequest struct {
	Table string    `json:"table"`
	Query dsl.Query `json:"query"`
}

// Query executes a DSL query. Results are memoized per source, table,
// and query body until the cache entry expires.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sourceName")
	src, err := h.sources.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req queryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	key := queryCacheKey(name, req.Table, &req.Query)
	if res, ok := h.results.Get(key); ok {
		writeJSON(w, http.StatusOK, res)
		return
	}

	res, err := src.Query(r.Context(), &req.Query, req.Table)
	if err != nil {
		// Query failures use the result envelope, so tool callers see
		// the same shape on success and failure.
		writeJSON(w, statusForError(err), model.ErrorResult(err.Error()))
		return
	}
	h.results.Put(key, res)
	writeJSON(w, http.StatusOK, res)
}

// queryCacheKey hashes the source, table, and query into a stable key.
func queryCacheKey(sourceName, table string, q *dsl.Query) string {
	payload, _ := json.Marshal(q)
	sum := sha256.Sum256(append([]byte(sourceName+"\x00"+table+"\x00"), payload...))
	return hex.EncodeToString(sum[:])
}

// ListPatterns returns the pattern catalog, optionally filtered by
// category.
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		patterns := h.registry.ByCategory(category)
		out := make([]pattern.Summary, len(patterns))
		for i, p := range patterns {
			out[i] = p.Summary()
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "patterns": out})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "patterns": h.registry.List()})
}

// GetPattern returns one pattern's summary.
func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patternID")
	p := h.registry.Get(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "pattern "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "pattern": p.Summary()})
}

// sourceInfo is the list entry for a registered source.
type sourceInfo struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

// ListSources returns the registered sources.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	names := h.sources.List()
	out := make([]sourceInfo, 0, len(names))
	for _, n := range names {
		src, err := h.sources.Get(n)
		if err != nil {
			continue
		}
		out = append(out, sourceInfo{Name: n, Driver: src.Driver()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sources": out})
}

// CreateSource registers and connects a new source.
func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var cfg source.Config
	if err := readJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.sources.Open(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "name": cfg.Name})
}

// DeleteSource closes and removes a source.
func (h *Handler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sourceName")
	if err := h.sources.Remove(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GetSchema returns a source's introspected schema.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	src, err := h.sources.Get(chi.URLParam(r, "sourceName"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	schema, err := src.Schema(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "schema": schema})
}

// ClassifyColumns samples a table and returns its classified columns.
func (h *Handler) ClassifyColumns(w http.ResponseWriter, r *http.Request) {
	src, err := h.sources.Get(chi.URLParam(r, "sourceName"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	table := chi.URLParam(r, "tableName")
	rows, err := src.Sample(r.Context(), table, h.sampleRows)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	names := rowColumnNames(rows)
	if schema, err := src.Schema(r.Context()); err == nil {
		if t := schema.Table(table); t != nil {
			names = t.ColumnNames()
		}
	}
	cols := classify.ColumnsWith(source.InferColumns(rows, names), h.thresholds)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "columns": cols})
}

// GetSpec returns a stored visualization spec.
func (h *Handler) GetSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "specID")
	spec, ok := h.specs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "spec "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "spec": spec})
}

// RenderSpec returns a stored spec as a standalone HTML document.
func (h *Handler) RenderSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "specID")
	spec, ok := h.specs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "spec "+id+" not found")
		return
	}
	page, err := h.renderer.HTML(spec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}
