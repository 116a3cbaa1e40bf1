package dsl

import (
	"fmt"
	"math"
	"strings"

	"github.com/plotforge/plotforge/internal/model"
)

// Supported transform operations.
var transformOps = []string{"add", "subtract", "multiply", "divide", "ratio", "bucket"}

// Transform derives a new column from existing ones, applied to rows
// before classification or charting. Arithmetic ops take a second field
// or a constant; ratio emits a percentage; bucket bins a numeric field
// into fixed-width ranges labeled "lo-hi".
type Transform struct {
	Name  string   `json:"name"`
	Op    string   `json:"op"`
	Field string   `json:"field"`
	Other string   `json:"other,omitempty"`
	Value *float64 `json:"value,omitempty"`
	Width float64  `json:"width,omitempty"`
}

// ValidateTransforms checks every transform and reports the first
// problem, naming the offending entry and the valid alternatives.
func ValidateTransforms(ts []Transform) error {
	for i, t := range ts {
		if t.Name == "" {
			return fmt.Errorf("transform %d: name is required", i)
		}
		if !contains(transformOps, t.Op) {
			return fmt.Errorf("transform %q: unknown op %q (supported: %s)",
				t.Name, t.Op, strings.Join(transformOps, ", "))
		}
		if t.Field == "" {
			return fmt.Errorf("transform %q: field is required", t.Name)
		}
		switch t.Op {
		case "bucket":
			if t.Width <= 0 {
				return fmt.Errorf("transform %q: bucket requires a positive width", t.Name)
			}
		default:
			if t.Other == "" && t.Value == nil {
				return fmt.Errorf("transform %q: %s requires a second field or a value", t.Name, t.Op)
			}
		}
	}
	return nil
}

// ApplyTransforms computes each derived column on every row, in order,
// so later transforms can reference earlier outputs. Non-numeric or
// missing operands yield nil for that row; division by zero yields nil,
// except for ratio which yields 0 to match pct_of_total.
func ApplyTransforms(rows []model.Row, ts []Transform) error {
	if err := ValidateTransforms(ts); err != nil {
		return err
	}
	for _, t := range ts {
		for _, row := range rows {
			row[t.Name] = t.apply(row)
		}
	}
	return nil
}

func (t Transform) apply(row model.Row) any {
	v, ok := toFloat(row[t.Field])
	if !ok {
		return nil
	}

	if t.Op == "bucket" {
		lo := math.Floor(v/t.Width) * t.Width
		return fmt.Sprintf("%g-%g", lo, lo+t.Width)
	}

	var operand float64
	if t.Other != "" {
		o, ok := toFloat(row[t.Other])
		if !ok {
			return nil
		}
		operand = o
	} else {
		operand = *t.Value
	}

	switch t.Op {
	case "add":
		return v + operand
	case "subtract":
		return v - operand
	case "multiply":
		return v * operand
	case "divide":
		if operand == 0 {
			return nil
		}
		return v / operand
	case "ratio":
		if operand == 0 {
			return 0.0
		}
		return v / operand * 100
	}
	return nil
}
