package dsl

import (
	"strings"
	"testing"

	"github.com/plotforge/plotforge/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidateTransforms(t *testing.T) {
	tests := []struct {
		name    string
		ts      []Transform
		wantErr string
	}{
		{
			name:    "missing name",
			ts:      []Transform{{Op: "add", Field: "a", Value: floatPtr(1)}},
			wantErr: "name is required",
		},
		{
			name:    "unknown op",
			ts:      []Transform{{Name: "x", Op: "exponentiate", Field: "a"}},
			wantErr: "unknown op",
		},
		{
			name:    "unknown op lists alternatives",
			ts:      []Transform{{Name: "x", Op: "nope", Field: "a"}},
			wantErr: "add, subtract, multiply, divide, ratio, bucket",
		},
		{
			name:    "missing field",
			ts:      []Transform{{Name: "x", Op: "add", Value: floatPtr(1)}},
			wantErr: "field is required",
		},
		{
			name:    "arithmetic needs operand",
			ts:      []Transform{{Name: "x", Op: "divide", Field: "a"}},
			wantErr: "requires a second field or a value",
		},
		{
			name:    "bucket needs width",
			ts:      []Transform{{Name: "x", Op: "bucket", Field: "a"}},
			wantErr: "positive width",
		},
		{
			name: "valid set",
			ts: []Transform{
				{Name: "total", Op: "add", Field: "a", Other: "b"},
				{Name: "half", Op: "divide", Field: "a", Value: floatPtr(2)},
				{Name: "band", Op: "bucket", Field: "a", Width: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransforms(tt.ts)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyTransformsArithmetic(t *testing.T) {
	rows := []model.Row{
		{"price": 10.0, "cost": 4.0},
		{"price": 20.0, "cost": 0.0},
		{"price": "n/a", "cost": 4.0},
	}
	ts := []Transform{
		{Name: "margin", Op: "subtract", Field: "price", Other: "cost"},
		{Name: "markup", Op: "divide", Field: "price", Other: "cost"},
		{Name: "double", Op: "multiply", Field: "price", Value: floatPtr(2)},
	}
	if err := ApplyTransforms(rows, ts); err != nil {
		t.Fatal(err)
	}

	if rows[0]["margin"] != 6.0 || rows[0]["markup"] != 2.5 || rows[0]["double"] != 20.0 {
		t.Errorf("row 0 = %v", rows[0])
	}
	// Division by zero yields nil.
	if rows[1]["markup"] != nil {
		t.Errorf("markup with zero cost = %v, want nil", rows[1]["markup"])
	}
	// Non-numeric operand yields nil.
	if rows[2]["margin"] != nil || rows[2]["double"] != nil {
		t.Errorf("row 2 = %v, want nil derived values", rows[2])
	}
}

func TestApplyTransformsRatio(t *testing.T) {
	rows := []model.Row{
		{"part": 25.0, "whole": 100.0},
		{"part": 5.0, "whole": 0.0},
	}
	ts := []Transform{{Name: "pct", Op: "ratio", Field: "part", Other: "whole"}}
	if err := ApplyTransforms(rows, ts); err != nil {
		t.Fatal(err)
	}
	if rows[0]["pct"] != 25.0 {
		t.Errorf("pct = %v, want 25", rows[0]["pct"])
	}
	// Zero denominator yields 0, same as pct_of_total.
	if rows[1]["pct"] != 0.0 {
		t.Errorf("pct with zero whole = %v, want 0", rows[1]["pct"])
	}
}

func TestApplyTransformsBucket(t *testing.T) {
	rows := []model.Row{
		{"age": 7.0},
		{"age": 10.0},
		{"age": 23.0},
		{"age": -5.0},
	}
	ts := []Transform{{Name: "band", Op: "bucket", Field: "age", Width: 10}}
	if err := ApplyTransforms(rows, ts); err != nil {
		t.Fatal(err)
	}
	want := []string{"0-10", "10-20", "20-30", "-10-0"}
	for i, w := range want {
		if rows[i]["band"] != w {
			t.Errorf("row %d band = %v, want %q", i, rows[i]["band"], w)
		}
	}
}

func TestApplyTransformsChained(t *testing.T) {
	rows := []model.Row{{"a": 3.0, "b": 1.0}}
	ts := []Transform{
		{Name: "sum", Op: "add", Field: "a", Other: "b"},
		{Name: "sum_pct", Op: "ratio", Field: "a", Other: "sum"},
	}
	if err := ApplyTransforms(rows, ts); err != nil {
		t.Fatal(err)
	}
	if rows[0]["sum"] != 4.0 || rows[0]["sum_pct"] != 75.0 {
		t.Errorf("row = %v", rows[0])
	}
}

func TestApplyTransformsInvalidSpecLeavesRowsUntouched(t *testing.T) {
	rows := []model.Row{{"a": 1.0}}
	err := ApplyTransforms(rows, []Transform{{Name: "x", Op: "nope", Field: "a"}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := rows[0]["x"]; ok {
		t.Error("invalid transform should not write columns")
	}
}
