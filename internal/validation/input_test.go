package validation

import (
	"errors"
	"math"
	"testing"
)

func TestValidateElementsJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantInvalid bool
		wantNotArr  bool
	}{
		{name: "empty array", input: `[]`},
		{name: "elements", input: `[{"type":"rectangle","id":"r1"}]`},
		{name: "unknown kinds pass here", input: `[{"type":"hexagon"}]`},
		{name: "truncated", input: `[{`, wantInvalid: true},
		{name: "trailing comma", input: `[1,]`, wantInvalid: true},
		{name: "empty string", input: ``, wantInvalid: true},
		{name: "object", input: `{"type":"rectangle"}`, wantNotArr: true},
		{name: "string", input: `"[]"`, wantNotArr: true},
		{name: "null", input: `null`, wantNotArr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementsJSON(tt.input)

			var invalid *InvalidJSONError
			if got := errors.As(err, &invalid); got != tt.wantInvalid {
				t.Errorf("ValidateElementsJSON() error = %v, want invalid JSON %v", err, tt.wantInvalid)
			}
			if got := errors.Is(err, ErrNotArray); got != tt.wantNotArr {
				t.Errorf("ValidateElementsJSON() error = %v, want not-array %v", err, tt.wantNotArr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"", "png", "svg", "PNG"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) unexpected error: %v", f, err)
		}
	}
	for _, f := range []string{"jpeg", "pdf", " svg"} {
		if err := ValidateFormat(f); err == nil {
			t.Errorf("ValidateFormat(%q) should fail", f)
		}
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		scale   float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{2, false},
		{MaxScale, false},
		{-1, true},
		{MaxScale + 1, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidateScale(tt.scale)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateScale(%g) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
	}
}
