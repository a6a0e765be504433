// Package artifact inspects written diagram files and rasterizes SVG
// output offline, without a browser.
package artifact

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Info describes a written artifact
type Info struct {
	Format string // "png" or "svg"
	Width  int
	Height int
	Bytes  int64
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Inspect reports the format and size of the file at path. Only the
// header of the file is read.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}
	info, err := inspect(bufio.NewReader(f), st.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// InspectBytes reports the format and size of an in-memory artifact
func InspectBytes(data []byte) (*Info, error) {
	return inspect(bufio.NewReader(bytes.NewReader(data)), int64(len(data)))
}

func inspect(r *bufio.Reader, size int64) (*Info, error) {
	if size == 0 {
		return nil, errors.New("artifact is empty")
	}

	if head, err := r.Peek(len(pngSignature)); err == nil && bytes.Equal(head, pngSignature) {
		cfg, err := png.DecodeConfig(r)
		if err != nil {
			return nil, fmt.Errorf("invalid PNG: %w", err)
		}
		return &Info{Format: "png", Width: cfg.Width, Height: cfg.Height, Bytes: size}, nil
	}

	w, h, err := svgSize(r)
	if err != nil {
		return nil, err
	}
	return &Info{Format: "svg", Width: w, Height: h, Bytes: size}, nil
}

// svgSize reads the width and height attributes of the root svg element,
// falling back to the viewBox when they are absent
func svgSize(r io.Reader) (int, int, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return 0, 0, errors.New("no svg root element")
		}
		if err != nil {
			return 0, 0, fmt.Errorf("invalid SVG: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
		}

		var width, height, viewBox string
		for _, a := range start.Attr {
			switch a.Name.Local {
			case "width":
				width = a.Value
			case "height":
				height = a.Value
			case "viewBox":
				viewBox = a.Value
			}
		}

		w, h := length(width), length(height)
		if (w == 0 || h == 0) && viewBox != "" {
			if fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " ")); len(fields) == 4 {
				if w == 0 {
					w = length(fields[2])
				}
				if h == 0 {
					h = length(fields[3])
				}
			}
		}
		return w, h, nil
	}
}

// length parses an SVG length like "212", "212.5" or "212px" to whole units
func length(s string) int {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
