package artifact

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterize renders SVG markup to a PNG at scale times its native size on
// a white background. Only vector shapes are drawn: text and embedded
// fonts are skipped, so the result is a preview rather than a faithful
// capture.
func Rasterize(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if sw, sh, err := svgSize(bytes.NewReader(svg)); err == nil && sw > 0 && sh > 0 {
		w, h = float64(sw), float64(sh)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG has no usable size")
	}

	outW := int(math.Round(w * scale))
	outH := int(math.Round(h * scale))
	icon.SetTarget(0, 0, float64(outW), float64(outH))

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(outW, outH, img, img.Bounds())
	raster := rasterx.NewDasher(outW, outH, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
