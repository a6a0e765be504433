// Package surface defines the rendering surface the renderer drives: a
// headless page that can navigate, run scripts, and locate, screenshot and
// serialize elements. The production implementation drives Chromium
// through go-rod; tests use surfacetest.
package surface

import (
	"context"
	_ "embed"
	"time"
)

// RootSelector locates the rendered drawing inside the page
const RootSelector = "#canvas > svg"

// Page scripts. Each is a function expression evaluated with positional
// arguments.
var (
	// InitScript establishes the document, imports the drawing library and
	// exposes the window.__sketch entry points. Args: module URL, font
	// settle time in milliseconds.
	//
	//go:embed scripts/init.js
	InitScript string

	// ReadyScript reports whether InitScript completed
	ReadyScript = `() => window.__RENDER_READY__ === true`

	// ProbeScript is the liveness probe
	ProbeScript = `() => true`

	// ExpandScript converts element descriptors into drawable primitives.
	// Args: elements, regenerateIds.
	ExpandScript = `(elements, regenerateIds) => window.__sketch.expand(elements, regenerateIds)`

	// ExportScript renders primitives to a detached drawing and returns its
	// intrinsic width/height attributes. Args: primitives, padding.
	ExportScript = `(elements, padding) => window.__sketch.export(elements, padding)`

	// FrameScript applies the output frame to the exported drawing and
	// mounts it at RootSelector. Args: viewBox (or null), width, height.
	FrameScript = `(viewBox, width, height) => window.__sketch.frame(viewBox, width, height)`
)

// Launcher creates rendering surfaces
type Launcher interface {
	Launch(ctx context.Context) (Surface, error)
}

// LauncherFunc adapts a function to the Launcher interface
type LauncherFunc func(ctx context.Context) (Surface, error)

func (f LauncherFunc) Launch(ctx context.Context) (Surface, error) {
	return f(ctx)
}

// Surface is one live headless page
type Surface interface {
	// Navigate loads url and waits for the document to load
	Navigate(ctx context.Context, url string) error

	// Run evaluates a function expression with args, awaiting a returned
	// promise, and decodes the JSON result into out (ignored when nil)
	Run(ctx context.Context, script string, out any, args ...any) error

	// Locate returns the element matching a CSS selector
	Locate(ctx context.Context, selector string) (Element, error)

	// Close releases the page and its browser
	Close() error
}

// Element is a handle to a node of the page
type Element interface {
	// WaitVisible blocks until the element is visible or timeout elapses
	WaitVisible(ctx context.Context, timeout time.Duration) error

	// Screenshot captures a PNG scoped to the element
	Screenshot(ctx context.Context) ([]byte, error)

	// Markup serializes the element to XML markup
	Markup(ctx context.Context) (string, error)
}
