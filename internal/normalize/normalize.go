// Package normalize prepares drawable elements for the drawing library:
// label alignment defaults go in first, the library expands shape
// descriptors into full primitives, then every text primitive is pinned to
// the hand-drawn font. Expansion can synthesize text primitives from labels,
// so the font can only be forced after it.
package normalize

import (
	"context"
	"fmt"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Default label alignment merged under caller-supplied label fields
const (
	DefaultTextAlign     = "center"
	DefaultVerticalAlign = "middle"
)

// HandDrawnFont is the font family id every text primitive is rendered with
const HandDrawnFont = 1

// Primitive is one fully specified drawable returned by the expander
type Primitive map[string]any

// Expander turns shape descriptors into drawable primitives. Ids must be
// preserved so bindings by id stay valid across the transform.
type Expander interface {
	Expand(ctx context.Context, elements []scene.Element, regenerateIDs bool) ([]Primitive, error)
}

// ExpanderFunc adapts a function to the Expander interface
type ExpanderFunc func(ctx context.Context, elements []scene.Element, regenerateIDs bool) ([]Primitive, error)

func (f ExpanderFunc) Expand(ctx context.Context, elements []scene.Element, regenerateIDs bool) ([]Primitive, error) {
	return f(ctx, elements, regenerateIDs)
}

// Normalize runs label defaults, expansion and font forcing in that order
func Normalize(ctx context.Context, exp Expander, elements []scene.Element) ([]Primitive, error) {
	prepared := WithLabelDefaults(elements)

	primitives, err := exp.Expand(ctx, prepared, false)
	if err != nil {
		return nil, fmt.Errorf("failed to expand elements: %w", err)
	}

	return ForceFont(primitives), nil
}

// WithLabelDefaults returns a copy of elements where every label carries
// the default alignment unless the caller sent the field, whatever its
// value. Input is not modified.
func WithLabelDefaults(elements []scene.Element) []scene.Element {
	out := make([]scene.Element, len(elements))
	for i, el := range elements {
		if el.Label != nil {
			label := *el.Label
			if label.TextAlign == "" && !label.Has("textAlign") {
				label.TextAlign = DefaultTextAlign
			}
			if label.VerticalAlign == "" && !label.Has("verticalAlign") {
				label.VerticalAlign = DefaultVerticalAlign
			}
			el.Label = &label
		}
		out[i] = el
	}
	return out
}

// ForceFont sets the hand-drawn font on every text primitive
func ForceFont(primitives []Primitive) []Primitive {
	for _, p := range primitives {
		if p["type"] == string(scene.KindText) {
			p["fontFamily"] = HandDrawnFont
		}
	}
	return primitives
}
