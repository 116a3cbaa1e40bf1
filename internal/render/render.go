// Package render turns visualization specs into self-contained HTML
// documents. Each pattern id can register its own body renderer; the
// default embeds the spec as JSON for a client-side chart library, and
// tabular patterns render a plain HTML table.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// Renderer produces the document body for one pattern.
type Renderer func(spec *model.VisualizationSpec) (template.HTML, error)

// Registry maps pattern ids to body renderers.
type Registry struct {
	byID     map[string]Renderer
	fallback Renderer
}

// NewRegistry creates a registry with the built-in renderers: an HTML
// table for the table pattern, and the JSON-embedding shell for
// everything else.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Renderer), fallback: renderEmbedded}
	r.Register("table", renderTable)
	return r
}

// Register installs a renderer for a pattern id, replacing any previous
// one.
func (r *Registry) Register(patternID string, fn Renderer) {
	r.byID[patternID] = fn
}

// Patterns lists the pattern ids with a dedicated renderer, sorted.
func (r *Registry) Patterns() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
h1 { font-size: 1.25rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.35rem 0.7rem; text-align: left; }
th { background: #f4f4f8; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// HTML renders a complete document for the spec.
func (r *Registry) HTML(spec *model.VisualizationSpec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("nil spec")
	}
	fn, ok := r.byID[spec.Pattern]
	if !ok {
		fn = r.fallback
	}
	body, err := fn(spec)
	if err != nil {
		return "", fmt.Errorf("render pattern %q: %w", spec.Pattern, err)
	}

	title := spec.Title
	if title == "" {
		title = spec.Pattern
	}
	var b strings.Builder
	err = pageTemplate.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: body})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return b.String(), nil
}

// renderEmbedded emits the spec as a JSON island for a client-side
// renderer, with a named mount point per pattern.
func renderEmbedded(spec *model.VisualizationSpec) (template.HTML, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("encode spec: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="chart" data-pattern=%q></div>`, spec.Pattern)
	b.WriteString("\n")
	// </ inside the JSON would close the script element early.
	safe := strings.ReplaceAll(string(payload), "</", `<\/`)
	fmt.Fprintf(&b, `<script id="chart-spec" type="application/json">%s</script>`, safe)
	return template.HTML(b.String()), nil
}

// renderTable renders the spec's data rows as an HTML table, columns in
// first-row key order supplemented by later rows.
func renderTable(spec *model.VisualizationSpec) (template.HTML, error) {
	cols := tableColumns(spec.Data)
	var b strings.Builder
	b.WriteString("<table>\n<thead><tr>")
	for _, c := range cols {
		fmt.Fprintf(&b, "<th>%s</th>", template.HTMLEscapeString(c))
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range spec.Data {
		b.WriteString("<tr>")
		for _, c := range cols {
			v := row[c]
			text := ""
			if v != nil {
				text = fmt.Sprintf("%v", v)
			}
			fmt.Fprintf(&b, "<td>%s</td>", template.HTMLEscapeString(text))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return template.HTML(b.String()), nil
}

// tableColumns collects column names across all rows, keeping the order
// they first appear in and sorting keys within a single row for
// determinism.
func tableColumns(rows []model.Row) []string {
	var cols []string
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
				cols = append(cols, k)
			}
		}
	}
	return cols
}
