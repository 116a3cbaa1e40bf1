package pattern

import (
	"reflect"
	"strings"
	"testing"

	"github.com/plotforge/plotforge/internal/classify"
	"github.com/plotforge/plotforge/internal/model"
)

// salesData builds a small categorical dataset: region x sales.
func salesData() ([]model.Row, []model.ClassifiedColumn) {
	data := []model.Row{
		{"region": "North", "sales": 120.0},
		{"region": "South", "sales": 80.0},
		{"region": "East", "sales": 95.0},
		{"region": "West", "sales": 143.0},
	}
	cols := classify.Columns([]model.Column{
		{Name: "region", Type: model.TypeCategorical, UniqueCount: 4, TotalCount: 4},
		{Name: "sales", Type: model.TypeNumeric, UniqueCount: 4, TotalCount: 4, Stats: &model.ColumnStats{Min: 80, Max: 143}},
	})
	// Force sales to measure: 4 unique of 4 would otherwise read as an id
	// in this tiny fixture.
	for i := range cols {
		if cols[i].Name == "sales" {
			cols[i].Role = model.RoleMeasure
		}
	}
	return data, cols
}

func newTestSelector() *Selector {
	return NewSelector(NewDefaultRegistry())
}

func TestSelectComparison(t *testing.T) {
	data, cols := salesData()
	res := newTestSelector().Select(data, cols, "compare sales by region", Options{})

	if res.IntentCategory != CategoryComparison {
		t.Errorf("intent category = %q, want comparison", res.IntentCategory)
	}
	if res.Recommended.Pattern.ID != "bar" {
		t.Errorf("recommended = %q, want bar", res.Recommended.Pattern.ID)
	}
	if res.Recommended.Spec == nil || res.Recommended.Spec.Pattern != "bar" {
		t.Error("recommended spec missing or mismatched")
	}
	if len(res.Recommended.Reasoning) == 0 {
		t.Error("expected reasoning entries for matched rules")
	}
	if len(res.Alternatives) == 0 || len(res.Alternatives) > DefaultAlternatives {
		t.Errorf("alternatives = %d, want 1..%d", len(res.Alternatives), DefaultAlternatives)
	}
}

func TestSelectDeterministic(t *testing.T) {
	data, cols := salesData()
	sel := newTestSelector()

	first := sel.Select(data, cols, "compare sales by region", Options{})
	second := sel.Select(data, cols, "compare sales by region", Options{})

	if !reflect.DeepEqual(first, second) {
		t.Error("selection is not reproducible across identical calls")
	}
}

func TestStableTieBreak(t *testing.T) {
	// Two patterns with identical rule tables must rank in insertion
	// order, reproducibly.
	reg := NewRegistry()
	rule := Rule{"always", 2, func(*Context) bool { return true }}
	reg.Register(&Pattern{ID: "first", Name: "First", Rules: []Rule{rule}})
	reg.Register(&Pattern{ID: "second", Name: "Second", Rules: []Rule{rule}})
	sel := NewSelector(reg)

	data, cols := salesData()
	for i := 0; i < 5; i++ {
		res := sel.Select(data, cols, "anything", Options{})
		if res.Recommended.Pattern.ID != "first" {
			t.Fatalf("run %d: recommended = %q, want first (insertion order tie-break)", i, res.Recommended.Pattern.ID)
		}
		if len(res.Alternatives) == 0 || res.Alternatives[0].Pattern.ID != "second" {
			t.Fatalf("run %d: first alternative should be second", i)
		}
	}
}

func TestScoreAccumulation(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Pattern{ID: "p", Name: "P", Rules: []Rule{
		{"plus three", 3, func(*Context) bool { return true }},
		{"plus one", 1, func(*Context) bool { return true }},
		{"penalty", -2, func(*Context) bool { return true }},
		{"never matches", 10, func(*Context) bool { return false }},
	}})
	data, cols := salesData()

	res := NewSelector(reg).Select(data, cols, "", Options{})
	if res.Recommended.Score != 2 {
		t.Errorf("score = %v, want 2 (3+1-2)", res.Recommended.Score)
	}
	want := []string{"plus three", "plus one", "penalty"}
	if !reflect.DeepEqual(res.Recommended.Reasoning, want) {
		t.Errorf("reasoning = %v, want %v", res.Recommended.Reasoning, want)
	}
}

func TestZeroMatchesStillParticipates(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Pattern{ID: "quiet", Name: "Quiet"})
	data, cols := salesData()

	res := NewSelector(reg).Select(data, cols, "whatever", Options{})
	if res.Recommended.Pattern.ID != "quiet" {
		t.Errorf("zero-rule pattern excluded; got %q", res.Recommended.Pattern.ID)
	}
	if res.Recommended.Score != 0 {
		t.Errorf("score = %v, want 0", res.Recommended.Score)
	}
}

func TestStructuralExclusionHidesPattern(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Pattern{ID: "huge", Requirements: DataRequirements{MinRows: 1000}, Rules: []Rule{
		{"always", 100, func(*Context) bool { return true }},
	}})
	reg.Register(&Pattern{ID: "fits"})
	data, cols := salesData()

	res := NewSelector(reg).Select(data, cols, "", Options{})
	if res.Recommended.Pattern.ID != "fits" {
		t.Errorf("recommended = %q, want fits", res.Recommended.Pattern.ID)
	}
	for _, alt := range res.Alternatives {
		if alt.Pattern.ID == "huge" {
			t.Error("structurally excluded pattern appeared in alternatives")
		}
	}
}

func TestForcePatternKnown(t *testing.T) {
	data, cols := salesData()
	res := newTestSelector().Select(data, cols, "compare sales by region", Options{ForcePattern: "pie"})

	if res.Recommended.Pattern.ID != "pie" {
		t.Fatalf("recommended = %q, want forced pie", res.Recommended.Pattern.ID)
	}
	if len(res.Recommended.Reasoning) == 0 || !strings.Contains(res.Recommended.Reasoning[0], "Forced pattern: pie") {
		t.Errorf("reasoning should lead with the forced-pattern note, got %v", res.Recommended.Reasoning)
	}
	if len(res.Alternatives) == 0 {
		t.Error("alternatives should still come from the regular scoring pass")
	}
}

func TestForcePatternUnknown(t *testing.T) {
	data, cols := salesData()
	res := newTestSelector().Select(data, cols, "compare sales by region", Options{ForcePattern: "hologram"})

	if res.Recommended.Pattern.ID != "bar" {
		t.Errorf("recommended = %q, want normal recommendation bar", res.Recommended.Pattern.ID)
	}
	found := false
	for _, r := range res.Recommended.Reasoning {
		if strings.Contains(r, "Unknown forced pattern: hologram") {
			found = true
		}
	}
	if !found {
		t.Errorf("reasoning must name the unknown forced pattern, got %v", res.Recommended.Reasoning)
	}
}

func TestEmptyInputNeverFails(t *testing.T) {
	res := newTestSelector().Select(nil, nil, "show something", Options{})

	if res.Recommended.Pattern.ID == "" {
		t.Fatal("degenerate input must still produce a pattern id")
	}
	if res.Recommended.Score > 0 {
		t.Errorf("degenerate score = %v, want <= 0", res.Recommended.Score)
	}
	if res.Recommended.Spec == nil {
		t.Error("degenerate input must still produce a spec")
	}
}

func TestEmptyRegistryDegrades(t *testing.T) {
	sel := NewSelector(NewRegistry())
	res := sel.Select(nil, nil, "anything", Options{})
	if res.Recommended.Pattern.ID != "table" {
		t.Errorf("empty registry fallback = %q, want table placeholder", res.Recommended.Pattern.ID)
	}
}

func TestTimeSeriesPrefersLine(t *testing.T) {
	data := []model.Row{
		{"month": "2025-01", "revenue": 10.0},
		{"month": "2025-02", "revenue": 12.0},
		{"month": "2025-03", "revenue": 15.0},
		{"month": "2025-04", "revenue": 13.0},
		{"month": "2025-05", "revenue": 18.0},
		{"month": "2025-06", "revenue": 21.0},
	}
	cols := classify.Columns([]model.Column{
		{Name: "month", Type: model.TypeDate, UniqueCount: 6, TotalCount: 6},
		{Name: "revenue", Type: model.TypeNumeric, UniqueCount: 5, TotalCount: 6},
	})

	res := newTestSelector().Select(data, cols, "revenue trend over time", Options{})
	if res.Recommended.Pattern.ID != "line" {
		t.Errorf("recommended = %q, want line for a time-series trend", res.Recommended.Pattern.ID)
	}
	if res.IntentCategory != CategoryTime {
		t.Errorf("intent category = %q, want time", res.IntentCategory)
	}
}

func TestMaxAlternativesCap(t *testing.T) {
	data, cols := salesData()
	res := newTestSelector().Select(data, cols, "compare sales by region", Options{MaxAlternatives: 1})
	if len(res.Alternatives) != 1 {
		t.Errorf("alternatives = %d, want 1", len(res.Alternatives))
	}
}
