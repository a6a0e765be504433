package scene

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ankek/terraform-provider-sketch/internal/renderr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   string
	}{
		{
			name:      "single rectangle",
			input:     `[{"type":"rectangle","id":"r1","x":0,"y":0,"width":100,"height":50}]`,
			wantCount: 1,
		},
		{
			name:      "empty array parses",
			input:     `[]`,
			wantCount: 0,
		},
		{
			name:      "camera and arrow",
			input:     `[{"type":"cameraUpdate","x":0,"y":0,"width":400,"height":300},{"type":"arrow","id":"a1","x":10,"y":10,"points":[[0,0],[100,0]]}]`,
			wantCount: 2,
		},
		{
			name:    "malformed JSON",
			input:   `[{`,
			wantErr: "invalid JSON in elements",
		},
		{
			name:    "empty string",
			input:   ``,
			wantErr: "invalid JSON in elements",
		},
		{
			name:    "object top level",
			input:   `{"type":"rectangle"}`,
			wantErr: "elements must be a JSON array",
		},
		{
			name:    "null top level",
			input:   `null`,
			wantErr: "elements must be a JSON array",
		},
		{
			name:    "element is not an object",
			input:   `[42]`,
			wantErr: "element 0",
		},
		{
			name:    "missing type",
			input:   `[{"id":"r1","x":0,"y":0}]`,
			wantErr: "element 0 (r1): missing type",
		},
		{
			name:    "unknown type",
			input:   `[{"type":"rectangle","id":"ok"},{"type":"hexagon","id":"h1"}]`,
			wantErr: `element 1 (h1): unsupported type "hexagon"`,
		},
		{
			name:    "short point",
			input:   `[{"type":"arrow","id":"a1","x":0,"y":0,"points":[[0]]}]`,
			wantErr: "point must have two coordinates",
		},
		{
			name:    "non-numeric coordinate",
			input:   `[{"type":"rectangle","id":"r1","x":"left"}]`,
			wantErr: `field "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := Parse(tt.input)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Parse() expected error containing %q, got nil", tt.wantErr)
				}
				if !renderr.Is(err, renderr.KindInput) {
					t.Errorf("Parse() error kind = %v, want input error", renderr.KindOf(err))
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Parse() error = %q, want it to contain %q", err.Error(), tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(elements) != tt.wantCount {
				t.Errorf("Parse() returned %d elements, want %d", len(elements), tt.wantCount)
			}
		})
	}
}

func TestParseDecodesFields(t *testing.T) {
	input := `[{"type":"arrow","id":"a1","x":300,"y":150,"width":150,"height":0,
		"points":[[0,0],[150,0]],"strokeColor":"#1e1e1e","strokeWidth":2,
		"endArrowhead":"arrow",
		"startBinding":{"elementId":"b1","fixedPoint":[1,0.5]},
		"label":{"text":"connects","fontSize":14}}]`

	elements, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	el := elements[0]

	if el.Type != KindArrow || el.ID != "a1" {
		t.Errorf("Type/ID = %s/%s, want arrow/a1", el.Type, el.ID)
	}
	if el.X == nil || *el.X != 300 || el.Y == nil || *el.Y != 150 {
		t.Errorf("anchor = %v,%v, want 300,150", el.X, el.Y)
	}
	if len(el.Points) != 2 || el.Points[1].DX != 150 || el.Points[1].DY != 0 {
		t.Errorf("Points = %v", el.Points)
	}
	if el.Style.StrokeColor != "#1e1e1e" || el.Style.StrokeWidth == nil || *el.Style.StrokeWidth != 2 {
		t.Errorf("Style = %+v", el.Style)
	}
	if el.StartBinding == nil || el.StartBinding.ElementID != "b1" {
		t.Errorf("StartBinding = %+v", el.StartBinding)
	}
	if el.Label == nil || el.Label.Text != "connects" || el.Label.FontSize == nil || *el.Label.FontSize != 14 {
		t.Errorf("Label = %+v", el.Label)
	}
}

func TestElementRoundTripPreservesUnknownFields(t *testing.T) {
	input := `[{"type":"rectangle","id":"r1","x":1,"y":2,"width":3,"height":4,
		"roundness":{"type":3},"label":{"text":"Hi","customFlag":true}}]`

	elements, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	elements[0].Label.TextAlign = "left"

	out, err := json.Marshal(elements[0])
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	roundness, ok := decoded["roundness"].(map[string]any)
	if !ok || roundness["type"] != float64(3) {
		t.Errorf("roundness lost: %v", decoded["roundness"])
	}
	label := decoded["label"].(map[string]any)
	if label["customFlag"] != true {
		t.Errorf("label.customFlag lost: %v", label)
	}
	if label["textAlign"] != "left" {
		t.Errorf("label.textAlign = %v, want left", label["textAlign"])
	}
	if decoded["x"] != float64(1) || decoded["height"] != float64(4) {
		t.Errorf("geometry changed: %v", decoded)
	}
}

func TestElementRoundTripKeepsCallerValues(t *testing.T) {
	input := `[{"type":"freedraw","id":"f1","x":0,"y":0,"strokeColor":"","backgroundColor":null,
		"points":[[0,0,0.5],[1,2,0.75]],"label":{"text":"","textAlign":""}}]`

	elements, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	out, err := json.Marshal(elements[0])
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if v, ok := decoded["strokeColor"]; !ok || v != "" {
		t.Errorf("strokeColor = %v (present %v), want \"\"", v, ok)
	}
	if v, ok := decoded["backgroundColor"]; !ok || v != nil {
		t.Errorf("backgroundColor = %v (present %v), want null", v, ok)
	}

	label := decoded["label"].(map[string]any)
	for _, key := range []string{"text", "textAlign"} {
		if v, ok := label[key]; !ok || v != "" {
			t.Errorf("label.%s = %v (present %v), want \"\"", key, v, ok)
		}
	}

	points := decoded["points"].([]any)
	second := points[1].([]any)
	if len(second) != 3 || second[0] != float64(1) || second[1] != float64(2) || second[2] != 0.75 {
		t.Errorf("points[1] = %v, want [1 2 0.75]", second)
	}
}

func TestElementClearedFieldIsRemoved(t *testing.T) {
	elements, err := Parse(`[{"type":"rectangle","id":"r1","strokeColor":"#000","label":{"text":"x"}}]`)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	elements[0].Style.StrokeColor = ""
	elements[0].Label = nil

	out, err := json.Marshal(elements[0])
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if _, ok := decoded["strokeColor"]; ok {
		t.Errorf("strokeColor still present: %v", decoded)
	}
	if _, ok := decoded["label"]; ok {
		t.Errorf("label still present: %v", decoded)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantDraw   []string
		wantCamera *Camera
		wantErr    bool
	}{
		{
			name:     "no camera",
			input:    `[{"type":"rectangle","id":"r1"},{"type":"ellipse","id":"e1"}]`,
			wantDraw: []string{"r1", "e1"},
		},
		{
			name:       "single camera",
			input:      `[{"type":"cameraUpdate","x":10,"y":20,"width":400,"height":300},{"type":"rectangle","id":"r1"}]`,
			wantDraw:   []string{"r1"},
			wantCamera: &Camera{X: 10, Y: 20, Width: 400, Height: 300},
		},
		{
			name: "last directive wins",
			input: `[{"type":"cameraUpdate","x":0,"y":0,"width":400,"height":300},
				{"type":"rectangle","id":"r1"},
				{"type":"viewportUpdate","x":5,"y":5,"width":1200,"height":900},
				{"type":"text","id":"t1"}]`,
			wantDraw:   []string{"r1", "t1"},
			wantCamera: &Camera{X: 5, Y: 5, Width: 1200, Height: 900},
		},
		{
			name:       "camera with missing fields passes through as zero",
			input:      `[{"type":"cameraUpdate","width":0},{"type":"diamond","id":"d1"}]`,
			wantDraw:   []string{"d1"},
			wantCamera: &Camera{},
		},
		{
			name:    "empty scene",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "only directives",
			input:   `[{"type":"cameraUpdate","x":0,"y":0,"width":400,"height":300}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}

			draw, camera, err := Split(elements)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Split() expected error, got nil")
				}
				if !renderr.Is(err, renderr.KindInput) || !strings.Contains(err.Error(), "no drawable elements") {
					t.Errorf("Split() error = %v, want input error about drawable elements", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}

			if len(draw) != len(tt.wantDraw) {
				t.Fatalf("Split() returned %d draw elements, want %d", len(draw), len(tt.wantDraw))
			}
			for i, id := range tt.wantDraw {
				if draw[i].ID != id {
					t.Errorf("draw[%d].ID = %s, want %s", i, draw[i].ID, id)
				}
			}

			switch {
			case tt.wantCamera == nil && camera != nil:
				t.Errorf("Split() camera = %+v, want none", *camera)
			case tt.wantCamera != nil && camera == nil:
				t.Errorf("Split() camera = nil, want %+v", *tt.wantCamera)
			case tt.wantCamera != nil && *camera != *tt.wantCamera:
				t.Errorf("Split() camera = %+v, want %+v", *camera, *tt.wantCamera)
			}
		})
	}
}
