package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/renderr"
	"github.com/ankek/terraform-provider-sketch/internal/surface"
	"github.com/ankek/terraform-provider-sketch/internal/surface/surfacetest"
	"github.com/ankek/terraform-provider-sketch/internal/viewport"
)

// framed returns a page with an exported drawing already mounted
func framed(t *testing.T, p *surfacetest.Page, frame viewport.Frame) *surfacetest.Page {
	t.Helper()
	ctx := context.Background()
	if err := p.Run(ctx, surface.ExportScript, nil, []any{}, viewport.Padding); err != nil {
		t.Fatalf("export: %v", err)
	}
	var viewBox any
	if frame.ViewBox != nil {
		viewBox = frame.ViewBox.ViewBox()
	}
	if err := p.Run(ctx, surface.FrameScript, nil, viewBox, frame.Width, frame.Height); err != nil {
		t.Fatalf("frame: %v", err)
	}
	return p
}

func TestPNGSize(t *testing.T) {
	frame := viewport.Frame{
		ViewBox: &viewport.Window{X: 20, Y: 20, Width: 400, Height: 300},
		Width:   800,
		Height:  600,
	}

	tests := []struct {
		name  string
		ratio float64
	}{
		{"native ratio", 1},
		{"high density", 2},
		{"fractional", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := framed(t, &surfacetest.Page{PixelRatio: tt.ratio}, frame)

			data, err := PNG(context.Background(), p, frame, time.Second)
			if err != nil {
				t.Fatalf("PNG() unexpected error: %v", err)
			}

			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if cfg.Width != 800 || cfg.Height != 600 {
				t.Errorf("PNG() size = %dx%d, want 800x600", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestPNGTimeout(t *testing.T) {
	frame := viewport.Frame{Width: 100, Height: 100}
	p := framed(t, &surfacetest.Page{Invisible: true}, frame)

	_, err := PNG(context.Background(), p, frame, 10*time.Millisecond)
	if !renderr.Is(err, renderr.KindTimeout) {
		t.Errorf("PNG() error = %v, want a render timeout", err)
	}
}

func TestPNGNothingMounted(t *testing.T) {
	_, err := PNG(context.Background(), &surfacetest.Page{}, viewport.Frame{Width: 10, Height: 10}, time.Second)
	if err == nil {
		t.Fatal("PNG() without a mounted drawing returned nil error")
	}
	if renderr.KindOf(err) != 0 {
		t.Errorf("PNG() error kind = %s, want unclassified", renderr.KindOf(err))
	}
}

func TestSVG(t *testing.T) {
	frame := viewport.Frame{
		ViewBox: &viewport.Window{X: 20, Y: 20, Width: 400, Height: 300},
		Width:   800,
		Height:  600,
	}
	p := framed(t, &surfacetest.Page{}, frame)

	markup, err := SVG(context.Background(), p)
	if err != nil {
		t.Fatalf("SVG() unexpected error: %v", err)
	}

	for _, want := range []string{`viewBox="20 20 400 300"`, `width="800"`, `height="600"`} {
		if !strings.Contains(markup, want) {
			t.Errorf("SVG() markup missing %s: %s", want, markup)
		}
	}
}

func TestFitPNGPassthrough(t *testing.T) {
	frame := viewport.Frame{Width: 64, Height: 32}
	p := framed(t, &surfacetest.Page{}, frame)
	el, err := p.Locate(context.Background(), surface.RootSelector)
	if err != nil {
		t.Fatal(err)
	}
	shot, err := el.Screenshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	got, err := fitPNG(shot, 64, 32)
	if err != nil {
		t.Fatalf("fitPNG() unexpected error: %v", err)
	}
	if !bytes.Equal(got, shot) {
		t.Error("fitPNG() re-encoded an image that already had the right size")
	}

	if _, err := fitPNG([]byte("not a png"), 1, 1); err == nil {
		t.Error("fitPNG() accepted invalid data")
	}
}

// viewportSurface captures at most a fixed viewport, cropping whatever
// lies past it
type viewportSurface struct {
	surfacetest.Page
	frame        viewport.Frame
	viewW, viewH int
	splitX       int
}

func (s *viewportSurface) Locate(ctx context.Context, selector string) (surface.Element, error) {
	return s, nil
}

func (s *viewportSurface) WaitVisible(ctx context.Context, timeout time.Duration) error {
	return nil
}

func (s *viewportSurface) Markup(ctx context.Context) (string, error) {
	return "", nil
}

// Screenshot draws red left of splitX and blue from it, clipped to the
// viewport
func (s *viewportSurface) Screenshot(ctx context.Context) ([]byte, error) {
	w, h := s.frame.PixelSize()
	w, h = min(w, s.viewW), min(h, s.viewH)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, min(s.splitX, w), h), &image.Uniform{color.RGBA{255, 0, 0, 255}}, image.Point{}, draw.Src)
	if s.splitX < w {
		draw.Draw(img, image.Rect(s.splitX, 0, w, h), &image.Uniform{color.RGBA{0, 0, 255, 255}}, image.Point{}, draw.Src)
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestPNGClippedCaptureIsRejected(t *testing.T) {
	frame := viewport.Frame{Width: 1600, Height: 1200}
	s := &viewportSurface{frame: frame, viewW: 1280, viewH: 800, splitX: 800}

	data, err := PNG(context.Background(), s, frame, time.Second)
	if err == nil {
		img, _ := png.Decode(bytes.NewReader(data))
		t.Fatalf("PNG() stretched a %dx%d capture to %v instead of failing", s.viewW, s.viewH, img.Bounds())
	}
	if !strings.Contains(err.Error(), "does not cover") {
		t.Errorf("PNG() error = %v, want a coverage error", err)
	}
}

func TestPNGWithinViewport(t *testing.T) {
	frame := viewport.Frame{Width: 1000, Height: 700}
	s := &viewportSurface{frame: frame, viewW: 1280, viewH: 800, splitX: 800}

	data, err := PNG(context.Background(), s, frame, time.Second)
	if err != nil {
		t.Fatalf("PNG() unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(799, 10).RGBA(); r == 0 || b != 0 {
		t.Errorf("pixel left of the split is not red")
	}
	if r, _, b, _ := img.At(800, 10).RGBA(); r != 0 || b == 0 {
		t.Errorf("pixel right of the split is not blue")
	}
}

func TestUniformScale(t *testing.T) {
	tests := []struct {
		gotW, gotH, w, h int
		want             bool
	}{
		{1600, 1200, 800, 600, true},
		{1200, 900, 800, 600, true},
		{212, 130, 212, 131, true},
		{101, 300, 100, 300, true},
		{300, 101, 300, 100, true},
		{301, 450, 200, 300, true},
		{1280, 800, 1600, 1200, false},
		{800, 800, 800, 600, false},
		{0, 600, 800, 600, false},
		{600, 800, 600, 600, false},
	}

	for _, tt := range tests {
		if got := uniformScale(tt.gotW, tt.gotH, tt.w, tt.h); got != tt.want {
			t.Errorf("uniformScale(%dx%d, %dx%d) = %v, want %v", tt.gotW, tt.gotH, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestFitPNGRoundedWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 101, 300))
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}

	got, err := fitPNG(buf.Bytes(), 100, 300)
	if err != nil {
		t.Fatalf("fitPNG() unexpected error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 300 {
		t.Errorf("fitPNG() size = %dx%d, want 100x300", cfg.Width, cfg.Height)
	}
}
