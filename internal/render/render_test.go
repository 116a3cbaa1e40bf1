package render

import (
	"html/template"
	"strings"
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

func TestHTMLTablePattern(t *testing.T) {
	spec := &model.VisualizationSpec{
		Pattern: "table",
		Title:   "Raw Data",
		Data: []model.Row{
			{"region": "north", "sales": 100.0},
			{"region": "south", "sales": 50.0},
		},
	}
	html, err := NewRegistry().HTML(spec)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<title>Raw Data</title>",
		"<th>region</th>", "<th>sales</th>",
		"<td>north</td>", "<td>50</td>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestHTMLEmbeddedSpec(t *testing.T) {
	spec := &model.VisualizationSpec{
		Pattern:  "bar",
		Title:    "Sales by Region",
		Data:     []model.Row{{"region": "north", "sales": 100.0}},
		Encoding: model.Encoding{X: "region", Y: "sales"},
	}
	html, err := NewRegistry().HTML(spec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, `data-pattern="bar"`) {
		t.Error("missing chart mount point")
	}
	if !strings.Contains(html, `type="application/json"`) {
		t.Error("missing embedded spec")
	}
	if !strings.Contains(html, `"pattern":"bar"`) {
		t.Error("spec JSON not embedded")
	}
}

func TestHTMLEscapesCellValues(t *testing.T) {
	spec := &model.VisualizationSpec{
		Pattern: "table",
		Data:    []model.Row{{"name": "<script>alert(1)</script>"}},
	}
	html, err := NewRegistry().HTML(spec)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("cell value not escaped")
	}
}

func TestHTMLEscapesScriptCloseInJSON(t *testing.T) {
	spec := &model.VisualizationSpec{
		Pattern: "bar",
		Title:   "</script><script>alert(1)</script>",
	}
	html, err := NewRegistry().HTML(spec)
	if err != nil {
		t.Fatal(err)
	}
	// The JSON island must not contain an unescaped close tag.
	start := strings.Index(html, `type="application/json">`)
	if start < 0 {
		t.Fatal("missing JSON island")
	}
	island := html[start:]
	end := strings.Index(island, "</script>")
	if end < 0 {
		t.Fatal("island never closes")
	}
	if strings.Contains(island[:end], "<script>") {
		t.Error("unescaped markup inside JSON island")
	}
}

func TestHTMLFallbackTitle(t *testing.T) {
	html, err := NewRegistry().HTML(&model.VisualizationSpec{Pattern: "line"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<title>line</title>") {
		t.Error("untitled spec should fall back to the pattern id")
	}
}

func TestRegisterOverrides(t *testing.T) {
	reg := NewRegistry()
	reg.Register("bar", func(_ *model.VisualizationSpec) (template.HTML, error) {
		return "<p>custom</p>", nil
	})
	html, err := reg.HTML(&model.VisualizationSpec{Pattern: "bar"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<p>custom</p>") {
		t.Error("custom renderer not used")
	}
	if got := reg.Patterns(); len(got) != 2 || got[0] != "bar" || got[1] != "table" {
		t.Errorf("patterns = %v", got)
	}
}

func TestNilSpec(t *testing.T) {
	if _, err := NewRegistry().HTML(nil); err == nil {
		t.Error("expected error for nil spec")
	}
}
