// Package viewport maps a scene's camera directive onto the coordinate
// space of the exported drawing. The exporter places the scene's top-left
// corner at (Padding, Padding), so a camera expressed in scene coordinates
// has to be shifted by the scene bounds before it can be used as a viewBox.
package viewport

import (
	"math"
	"strconv"
	"strings"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// Padding is the margin, in scene units, the exporter adds around content
const Padding = 20.0

// Fallback frame size used when the exported content reports no size
const (
	FallbackWidth  = 800
	FallbackHeight = 600
)

// Bounds is the top-left corner of the drawn content in scene coordinates
type Bounds struct {
	MinX float64
	MinY float64
}

// Window is a rectangle in the exported drawing's coordinate space
type Window struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ViewBox formats w as an SVG viewBox attribute value
func (w Window) ViewBox() string {
	return strings.Join([]string{
		formatFloat(w.X),
		formatFloat(w.Y),
		formatFloat(w.Width),
		formatFloat(w.Height),
	}, " ")
}

// Frame is the final output frame applied to the rendered root before
// extraction. ViewBox is nil when the native frame of the content is kept.
type Frame struct {
	ViewBox *Window
	Width   float64
	Height  float64
}

// PixelSize returns the frame size rounded to whole output pixels
func (f Frame) PixelSize() (int, int) {
	return int(math.Round(f.Width)), int(math.Round(f.Height))
}

// ComputeBounds returns the component-wise minimum over every element's
// anchor and every point offset applied to that anchor. Missing coordinates
// do not contribute; an axis nothing contributed to defaults to 0.
func ComputeBounds(elements []scene.Element) Bounds {
	minX, minY := math.Inf(1), math.Inf(1)

	for i := range elements {
		el := &elements[i]
		if el.X != nil && isFinite(*el.X) {
			minX = math.Min(minX, *el.X)
			for _, p := range el.Points {
				if isFinite(p.DX) {
					minX = math.Min(minX, *el.X+p.DX)
				}
			}
		}
		if el.Y != nil && isFinite(*el.Y) {
			minY = math.Min(minY, *el.Y)
			for _, p := range el.Points {
				if isFinite(p.DY) {
					minY = math.Min(minY, *el.Y+p.DY)
				}
			}
		}
	}

	if math.IsInf(minX, 1) {
		minX = 0
	}
	if math.IsInf(minY, 1) {
		minY = 0
	}
	return Bounds{MinX: minX, MinY: minY}
}

// Map translates a camera directive into the exported drawing's coordinate
// space. Width and height are carried unchanged and are not validated.
func Map(camera scene.Camera, b Bounds) Window {
	return Window{
		X:      camera.X - b.MinX + Padding,
		Y:      camera.Y - b.MinY + Padding,
		Width:  camera.Width,
		Height: camera.Height,
	}
}

// Resolve computes the output frame. With a camera window the frame is the
// window scaled by scale; without one the content keeps its native frame and
// its intrinsic size, parsed from the exported width/height attributes.
func Resolve(window *Window, intrinsicWidth, intrinsicHeight string, scale float64) Frame {
	if window != nil {
		vb := *window
		return Frame{
			ViewBox: &vb,
			Width:   window.Width * scale,
			Height:  window.Height * scale,
		}
	}

	return Frame{
		Width:  float64(intrinsic(intrinsicWidth, FallbackWidth)),
		Height: float64(intrinsic(intrinsicHeight, FallbackHeight)),
	}
}

// intrinsic reads the leading integer of a size attribute such as "212" or
// "212.5px", returning fallback when there is none or it is not positive
func intrinsic(attr string, fallback int) int {
	attr = strings.TrimSpace(attr)
	end := 0
	for end < len(attr) && attr[end] >= '0' && attr[end] <= '9' {
		end++
	}
	if end == 0 {
		return fallback
	}
	n, err := strconv.Atoi(attr[:end])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
