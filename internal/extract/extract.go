// Package extract pulls the final artifact out of a framed rendering
// surface: a PNG screenshot scoped to the drawing root, or the root's SVG
// markup.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"time"

	"golang.org/x/image/draw"

	"github.com/ankek/terraform-provider-sketch/internal/renderr"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
	"github.com/ankek/terraform-provider-sketch/internal/viewport"
)

// DefaultVisibleTimeout bounds the wait for the drawing root to be visible
const DefaultVisibleTimeout = 10 * time.Second

// PNG waits for the drawing root to become visible and captures it. The
// capture is resampled when the page's device pixel ratio made it differ
// from the frame's pixel size.
func PNG(ctx context.Context, s surface.Surface, frame viewport.Frame, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultVisibleTimeout
	}

	el, err := s.Locate(ctx, surface.RootSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to locate rendered drawing: %w", err)
	}

	if err := el.WaitVisible(ctx, timeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, renderr.Timeout(err, fmt.Sprintf("drawing did not become visible within %s", timeout))
		}
		return nil, fmt.Errorf("failed waiting for rendered drawing: %w", err)
	}

	data, err := el.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	w, h := frame.PixelSize()
	return fitPNG(data, w, h)
}

// SVG returns the serialized markup of the drawing root
func SVG(ctx context.Context, s surface.Surface) (string, error) {
	el, err := s.Locate(ctx, surface.RootSelector)
	if err != nil {
		return "", fmt.Errorf("failed to locate rendered drawing: %w", err)
	}

	markup, err := el.Markup(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to serialize rendered drawing: %w", err)
	}
	return markup, nil
}

// fitPNG returns data unchanged when it already is w by h pixels, and a
// resampled re-encoding when it is a uniform scaling of w by h. Any other
// size means the capture does not cover the frame and is an error.
func fitPNG(data []byte, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return data, nil
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("screenshot is not a valid PNG: %w", err)
	}
	if cfg.Width == w && cfg.Height == h {
		return data, nil
	}
	if !uniformScale(cfg.Width, cfg.Height, w, h) {
		return nil, fmt.Errorf("screenshot is %dx%d, which does not cover the %dx%d frame", cfg.Width, cfg.Height, w, h)
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// uniformScale reports whether a gotW by gotH image is w by h scaled by a
// single factor, allowing each axis to be off by its rounding. The factor
// comes from the larger dimension, where rounding matters least.
func uniformScale(gotW, gotH, w, h int) bool {
	if gotW <= 0 || gotH <= 0 || w <= 0 || h <= 0 {
		return false
	}
	ratio := float64(gotH) / float64(h)
	if w >= h {
		ratio = float64(gotW) / float64(w)
	}
	slack := math.Max(1, ratio)
	return math.Abs(float64(gotW)-float64(w)*ratio) <= slack &&
		math.Abs(float64(gotH)-float64(h)*ratio) <= slack
}
