package renderer

import (
	"context"
	"fmt"

	"github.com/ankek/terraform-provider-sketch/internal/normalize"
	"github.com/ankek/terraform-provider-sketch/internal/scene"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
	"github.com/ankek/terraform-provider-sketch/internal/viewport"
)

// exportedSize holds the intrinsic size attributes of an exported drawing
type exportedSize struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// compose normalizes and exports the scene on s, then applies the output
// frame and mounts the drawing at surface.RootSelector
func compose(ctx context.Context, s surface.Surface, elements []scene.Element, window *viewport.Window, scale float64) (viewport.Frame, error) {
	primitives, err := normalize.Normalize(ctx, libraryExpander{s: s}, elements)
	if err != nil {
		return viewport.Frame{}, err
	}

	var size exportedSize
	if err := s.Run(ctx, surface.ExportScript, &size, primitives, viewport.Padding); err != nil {
		return viewport.Frame{}, fmt.Errorf("failed to export drawing: %w", err)
	}

	frame := viewport.Resolve(window, size.Width, size.Height, scale)

	var viewBox any
	if frame.ViewBox != nil {
		viewBox = frame.ViewBox.ViewBox()
	}
	if err := s.Run(ctx, surface.FrameScript, nil, viewBox, frame.Width, frame.Height); err != nil {
		return viewport.Frame{}, fmt.Errorf("failed to frame drawing: %w", err)
	}

	return frame, nil
}

// libraryExpander expands elements with the drawing library loaded in s
type libraryExpander struct {
	s surface.Surface
}

func (e libraryExpander) Expand(ctx context.Context, elements []scene.Element, regenerateIDs bool) ([]normalize.Primitive, error) {
	var primitives []normalize.Primitive
	if err := e.s.Run(ctx, surface.ExpandScript, &primitives, elements, regenerateIDs); err != nil {
		return nil, err
	}
	return primitives, nil
}
