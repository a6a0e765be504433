// Package surfacetest provides an in-memory rendering surface that emulates
// the page scripts of package surface, for tests of the session and render
// pipeline that must not start a browser.
package surfacetest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/surface"
)

// ErrInvalidated is returned by every call on a page after Invalidate
var ErrInvalidated = errors.New("target closed")

// Frame records one application of surface.FrameScript
type Frame struct {
	ViewBox string
	Width   float64
	Height  float64
}

// Page is a fake surface. Zero values behave like a healthy page whose
// exported drawing has no intrinsic size.
type Page struct {
	// IntrinsicWidth and IntrinsicHeight are reported by the export step
	IntrinsicWidth  string
	IntrinsicHeight string

	// PixelRatio scales screenshots; 0 means 1
	PixelRatio float64

	NotReady    bool  // InitScript does not set the readiness flag
	NavigateErr error // returned by Navigate
	CloseErr    error // returned by Close
	Invisible   bool  // WaitVisible never succeeds

	mu          sync.Mutex
	ready       bool
	invalidated bool
	closed      bool
	exported    bool
	mounted     *Frame

	Navigations []string
	Probes      int
	Expanded    [][]map[string]any
	Exported    [][]map[string]any
	Frames      []Frame
}

var _ surface.Surface = (*Page)(nil)

// Invalidate makes every further call fail, as if the browser had crashed
func (p *Page) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidated = true
}

// Closed reports whether Close was called
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.invalidated {
		return ErrInvalidated
	}
	p.Navigations = append(p.Navigations, url)
	return p.NavigateErr
}

func (p *Page) Run(ctx context.Context, script string, out any, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.invalidated || p.closed {
		return ErrInvalidated
	}

	result, err := p.run(script, args)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *Page) run(script string, args []any) (any, error) {
	switch script {
	case surface.InitScript:
		p.ready = !p.NotReady
		return true, nil

	case surface.ReadyScript:
		return p.ready, nil

	case surface.ProbeScript:
		p.Probes++
		return true, nil

	case surface.ExpandScript:
		var elements []map[string]any
		if err := reencode(arg(args, 0), &elements); err != nil {
			return nil, err
		}
		p.Expanded = append(p.Expanded, elements)
		return expand(elements), nil

	case surface.ExportScript:
		var primitives []map[string]any
		if err := reencode(arg(args, 0), &primitives); err != nil {
			return nil, err
		}
		p.Exported = append(p.Exported, primitives)
		p.exported = true
		return map[string]string{"width": p.IntrinsicWidth, "height": p.IntrinsicHeight}, nil

	case surface.FrameScript:
		if !p.exported {
			return nil, errors.New("no exported drawing to frame")
		}
		p.exported = false

		f := Frame{}
		if vb, ok := arg(args, 0).(string); ok {
			f.ViewBox = vb
		} else if vb, ok := arg(args, 0).(*string); ok && vb != nil {
			f.ViewBox = *vb
		}
		if err := reencode(arg(args, 1), &f.Width); err != nil {
			return nil, err
		}
		if err := reencode(arg(args, 2), &f.Height); err != nil {
			return nil, err
		}
		p.Frames = append(p.Frames, f)
		p.mounted = &f
		return true, nil
	}

	return nil, fmt.Errorf("surfacetest: unexpected script %.40q", script)
}

func (p *Page) Locate(ctx context.Context, selector string) (surface.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.invalidated {
		return nil, ErrInvalidated
	}
	if selector != surface.RootSelector || p.mounted == nil {
		return nil, fmt.Errorf("element not found: %s", selector)
	}
	return &element{page: p, frame: *p.mounted}, nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.CloseErr
}

type element struct {
	page  *Page
	frame Frame
}

func (e *element) WaitVisible(ctx context.Context, timeout time.Duration) error {
	if !e.page.Invisible {
		return nil
	}
	select {
	case <-time.After(timeout):
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	ratio := e.page.PixelRatio
	if ratio == 0 {
		ratio = 1
	}
	w := int(math.Round(e.frame.Width * ratio))
	h := int(math.Round(e.frame.Height * ratio))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cannot capture an empty %dx%d element", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *element) Markup(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1"`)
	if e.frame.ViewBox != "" {
		fmt.Fprintf(&b, ` viewBox="%s"`, e.frame.ViewBox)
	}
	fmt.Fprintf(&b, ` width="%s" height="%s"`, formatFloat(e.frame.Width), formatFloat(e.frame.Height))
	fmt.Fprintf(&b, ` style="width: %spx; height: %spx;">`, formatFloat(e.frame.Width), formatFloat(e.frame.Height))
	b.WriteString(`<rect x="0" y="0" width="100%" height="100%" fill="#ffffff"></rect></svg>`)
	return b.String(), nil
}

// Launcher hands out fresh Pages and records them
type Launcher struct {
	// NewPage builds each launched page; nil launches zero-value pages
	NewPage func() *Page
	// Err fails every launch
	Err error

	mu       sync.Mutex
	launched []*Page
}

var _ surface.Launcher = (*Launcher)(nil)

func (l *Launcher) Launch(ctx context.Context) (surface.Surface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	p := &Page{}
	if l.NewPage != nil {
		p = l.NewPage()
	}
	l.launched = append(l.launched, p)
	return p, nil
}

// Launched returns every page handed out so far
func (l *Launcher) Launched() []*Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Page(nil), l.launched...)
}

// Last returns the most recently launched page, or nil
func (l *Launcher) Last() *Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.launched) == 0 {
		return nil
	}
	return l.launched[len(l.launched)-1]
}

// expand emulates the library's expansion: labels become bound text
// primitives with the library's default font. Inputs are not modified.
func expand(elements []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(elements))
	for _, src := range elements {
		el := make(map[string]any, len(src))
		for k, v := range src {
			el[k] = v
		}
		label, hasLabel := el["label"].(map[string]any)
		delete(el, "label")
		if el["type"] == "text" {
			el["fontFamily"] = 5
		}
		out = append(out, el)
		if hasLabel {
			text := map[string]any{
				"type":        "text",
				"id":          fmt.Sprintf("%v-label", el["id"]),
				"containerId": el["id"],
				"fontFamily":  5,
			}
			for k, v := range label {
				text[k] = v
			}
			out = append(out, text)
		}
	}
	return out
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func reencode(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
