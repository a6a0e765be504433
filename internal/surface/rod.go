package surface

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/hashicorp/go-hclog"
)

// RodOptions configures the Chromium process behind a surface
type RodOptions struct {
	Bin       string // browser executable; empty lets rod find or download one
	Headless  bool
	NoSandbox bool
	Logger    hclog.Logger
}

// RodLauncher launches headless Chromium pages through go-rod
type RodLauncher struct {
	opts RodOptions
}

var _ Launcher = (*RodLauncher)(nil)

// NewRodLauncher creates a launcher with the given options
func NewRodLauncher(opts RodOptions) *RodLauncher {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &RodLauncher{opts: opts}
}

// Launch starts a browser process, connects to it and opens a blank page.
// The browser outlives ctx, which is only checked before launching.
func (l *RodLauncher) Launch(ctx context.Context) (Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ln := launcher.New().
		Headless(l.opts.Headless).
		NoSandbox(l.opts.NoSandbox)
	if l.opts.Bin != "" {
		ln = ln.Bin(l.opts.Bin)
	}

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		ln.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	l.opts.Logger.Debug("browser launched", "control_url", controlURL)
	return &rodSurface{launcher: ln, browser: browser, page: page}, nil
}

type rodSurface struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func (s *rodSurface) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for %s to load: %w", url, err)
	}
	return nil
}

func (s *rodSurface) Run(ctx context.Context, script string, out any, args ...any) error {
	res, err := s.page.Context(ctx).Eval(script, args...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	data, err := res.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to read script result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode script result: %w", err)
	}
	return nil
}

func (s *rodSurface) Locate(ctx context.Context, selector string) (Element, error) {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", selector, err)
	}
	return &rodElement{el: el}, nil
}

// Close shuts the browser down and removes its profile directory. The
// process is killed if the graceful close fails.
func (s *rodSurface) Close() error {
	err := s.browser.Close()
	if err != nil {
		s.launcher.Kill()
	}
	s.launcher.Cleanup()
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	return e.el.Context(ctx).Timeout(timeout).WaitVisible()
}

// boxScript reports the element's border box in document coordinates
const boxScript = `() => {
	const r = this.getBoundingClientRect();
	return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
}`

// elementBox is a border box in document coordinates, in CSS pixels
type elementBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// captureRequest clips a page capture to box. Content outside the
// viewport is included, so the image covers the whole box however small
// the emulated screen is.
func captureRequest(box elementBox) (*proto.PageCaptureScreenshot, error) {
	for _, v := range []float64{box.X, box.Y, box.Width, box.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("element box %+v is not finite", box)
		}
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, fmt.Errorf("cannot capture an empty %gx%g element", box.Width, box.Height)
	}

	return &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	}, nil
}

// Screenshot captures the element's full box. rod's Element.Screenshot
// crops a viewport capture, which cuts off anything past the emulated
// screen.
func (e *rodElement) Screenshot(ctx context.Context) ([]byte, error) {
	res, err := e.el.Context(ctx).Eval(boxScript)
	if err != nil {
		return nil, fmt.Errorf("failed to measure element: %w", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to read element box: %w", err)
	}
	var box elementBox
	if err := json.Unmarshal(raw, &box); err != nil {
		return nil, fmt.Errorf("failed to decode element box: %w", err)
	}

	req, err := captureRequest(box)
	if err != nil {
		return nil, err
	}
	shot, err := req.Call(e.el.Page().Context(ctx))
	if err != nil {
		return nil, err
	}
	return shot.Data, nil
}

func (e *rodElement) Markup(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => new XMLSerializer().serializeToString(this)`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
