// Package renderer turns an elements JSON scene into a PNG or SVG file. It
// parses and partitions the scene, maps the camera directive onto the
// exported drawing, normalizes the elements through the drawing library,
// frames and extracts the result on the shared rendering surface, and
// writes it to disk.
package renderer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-sketch/internal/extract"
	"github.com/ankek/terraform-provider-sketch/internal/materialize"
	"github.com/ankek/terraform-provider-sketch/internal/renderr"
	"github.com/ankek/terraform-provider-sketch/internal/scene"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
	"github.com/ankek/terraform-provider-sketch/internal/viewport"
)

// Output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// DefaultScale multiplies the camera window for raster output
const DefaultScale = 2.0

// Options contains per-call render options
type Options struct {
	Format     string  // "png" (default) or "svg"
	OutputPath string  // empty generates a temporary path
	Scale      float64 // raster only; <= 0 means DefaultScale
}

// Sessions is the access point to the shared rendering surface
type Sessions interface {
	With(ctx context.Context, fn func(surface.Surface) error) error
	Shutdown(ctx context.Context)
}

// Settings configures a Renderer
type Settings struct {
	// Output chooses generated output paths
	Output materialize.Target
	// VisibleTimeout bounds the wait for raster content; 0 means 10s
	VisibleTimeout time.Duration
	Logger         hclog.Logger
}

// Renderer runs the render pipeline. Calls are serialized: the shared
// surface supports one scene at a time.
type Renderer struct {
	mu       sync.Mutex
	sessions Sessions
	settings Settings
	logger   hclog.Logger
}

// New creates a renderer driving sessions
func New(sessions Sessions, settings Settings) *Renderer {
	logger := settings.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Renderer{
		sessions: sessions,
		settings: settings,
		logger:   logger.Named("renderer"),
	}
}

// RenderPNG renders a raster image and returns the absolute path written.
// The camera window is multiplied by scale; scale <= 0 means DefaultScale.
func (r *Renderer) RenderPNG(ctx context.Context, elementsJSON, outputPath string, scale float64) (string, error) {
	return r.Render(ctx, elementsJSON, Options{Format: FormatPNG, OutputPath: outputPath, Scale: scale})
}

// RenderSVG renders a vector image at 1x and returns the absolute path written
func (r *Renderer) RenderSVG(ctx context.Context, elementsJSON, outputPath string) (string, error) {
	return r.Render(ctx, elementsJSON, Options{Format: FormatSVG, OutputPath: outputPath})
}

// Render dispatches on opts.Format
func (r *Renderer) Render(ctx context.Context, elementsJSON string, opts Options) (string, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatPNG
	}

	scale := 1.0
	switch format {
	case FormatPNG:
		scale = opts.Scale
		if scale <= 0 {
			scale = DefaultScale
		}
	case FormatSVG:
	default:
		return "", renderr.Input("unsupported format %q (supported: png, svg)", opts.Format)
	}

	// Input problems are reported before the surface is touched
	elements, err := scene.Parse(elementsJSON)
	if err != nil {
		return "", err
	}
	drawable, camera, err := scene.Split(elements)
	if err != nil {
		return "", err
	}

	var window *viewport.Window
	if camera != nil {
		w := viewport.Map(*camera, viewport.ComputeBounds(drawable))
		window = &w
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	r.logger.Debug("rendering scene", "format", format, "elements", len(drawable), "camera", camera != nil, "scale", scale)

	var data []byte
	err = r.sessions.With(ctx, func(s surface.Surface) error {
		frame, err := compose(ctx, s, drawable, window, scale)
		if err != nil {
			return err
		}

		if format == FormatSVG {
			markup, err := extract.SVG(ctx, s)
			if err != nil {
				return err
			}
			data = []byte(markup)
			return nil
		}

		data, err = extract.PNG(ctx, s, frame, r.settings.VisibleTimeout)
		return err
	})
	if err != nil {
		return "", err
	}

	path, err := r.settings.Output.Resolve(opts.OutputPath, format)
	if err != nil {
		return "", err
	}
	if err := materialize.Write(path, data); err != nil {
		return "", err
	}

	r.logger.Info("diagram saved", "path", path, "bytes", len(data), "elapsed", time.Since(started).Round(time.Millisecond))
	return path, nil
}

// Shutdown releases the rendering surface
func (r *Renderer) Shutdown(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Shutdown(ctx)
}

