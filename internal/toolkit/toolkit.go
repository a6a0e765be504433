// Package toolkit holds the logic shared by every outward boundary (the
// MCP server, the Terraform provider and the CLI): the element format
// reference text, request validation and the render tool's result text.
package toolkit

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-sketch/internal/artifact"
	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
	"github.com/ankek/terraform-provider-sketch/internal/validation"
)

// Tool names and descriptions
const (
	ReferenceToolName        = "excalidraw_read_me"
	ReferenceToolDescription = "Returns the Excalidraw element format reference with color palettes, examples, and tips. Call this BEFORE using create_excalidraw_diagram for the first time."

	RenderToolName        = "create_excalidraw_diagram"
	RenderToolDescription = "Renders a hand-drawn Excalidraw diagram to a PNG or SVG file.\nCall excalidraw_read_me first to learn the element format.\nReturns the file path of the saved file."
)

// Parameter descriptions of the render tool
const (
	ElementsDescription   = "JSON array string of Excalidraw elements. Must be valid JSON — no comments, no trailing commas. Keep compact. Call read_me first for format reference."
	OutputPathDescription = "Optional absolute file path for the output file. If omitted, saves to a temp file."
	FormatDescription     = "Output format: 'png' (default, rasterized) or 'svg' (vector, scalable). SVG is best for high-quality output that needs to scale to any size."
	ScaleDescription      = "Optional pixel multiplier for PNG output when a cameraUpdate sets the viewport. Defaults to 2."
)

//go:embed reference.md
var reference string

// Reference returns the element format reference text
func Reference() string {
	return reference
}

// Result is the outcome of a tool call. Text and IsError are what the
// caller is shown; Generated is set on success and Err on failure.
type Result struct {
	Text    string
	IsError bool

	Generated *interfaces.GenerateResult
	Err       error
}

// DiagramGenerator validates requests and renders them.
// It is shared by every boundary so they report identical results.
type DiagramGenerator struct {
	Renderer interfaces.DiagramRenderer
	// Paths checks explicit output paths; nil means PathValidator{}
	Paths interfaces.PathValidator
	// Logger records artifacts that were written but could not be inspected
	Logger hclog.Logger
}

var _ interfaces.DiagramGenerator = (*DiagramGenerator)(nil)

// NewDiagramGenerator creates a generator rendering with r
func NewDiagramGenerator(r interfaces.DiagramRenderer) *DiagramGenerator {
	return &DiagramGenerator{Renderer: r}
}

// Generate creates a diagram from an elements JSON scene.
//
// It performs the following steps:
//  1. Validates the elements JSON, format, scale and output path
//  2. Renders the scene to the requested format
//  3. Inspects the written file; an inspection failure leaves the size
//     fields zero
func (g *DiagramGenerator) Generate(ctx context.Context, cfg interfaces.DiagramConfig) (*interfaces.GenerateResult, error) {
	if err := validation.ValidateElementsJSON(cfg.Elements); err != nil {
		return nil, err
	}
	if err := validation.ValidateFormat(cfg.Format); err != nil {
		return nil, err
	}
	if err := validation.ValidateScale(cfg.Scale); err != nil {
		return nil, err
	}
	paths := g.Paths
	if paths == nil {
		paths = PathValidator{}
	}
	if err := paths.ValidateOutputPath(cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}

	path, err := g.Renderer.Render(ctx, cfg.Elements, renderer.Options{
		Format:     cfg.Format,
		OutputPath: cfg.OutputPath,
		Scale:      cfg.Scale,
	})
	if err != nil {
		return nil, err
	}

	result := &interfaces.GenerateResult{OutputPath: path, Format: requestedFormat(cfg.Format)}

	// The file is written at this point, so an unreadable header only
	// costs the size report
	info, err := artifact.Inspect(path)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Warn("rendered diagram could not be inspected", "path", path, "error", err)
		}
		return result, nil
	}

	return &interfaces.GenerateResult{
		OutputPath: path,
		Format:     info.Format,
		Width:      int64(info.Width),
		Height:     int64(info.Height),
		Bytes:      info.Bytes,
	}, nil
}

// RunTool runs a render tool call through gen. Every failure becomes an
// error result, never a Go error, so a long-lived caller can keep issuing
// calls.
func RunTool(ctx context.Context, gen interfaces.DiagramGenerator, cfg interfaces.DiagramConfig) Result {
	res, err := gen.Generate(ctx, cfg)
	if err != nil {
		return Result{Text: FailureText(err), IsError: true, Err: err}
	}
	return Result{Text: SuccessText(res.OutputPath), Generated: res}
}

// SuccessText formats a successful render for the caller
func SuccessText(path string) string {
	return "Diagram saved to: " + path
}

// FailureText formats a Generate error for the caller
func FailureText(err error) string {
	var invalid *validation.InvalidJSONError
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("Invalid JSON in elements: %v. Ensure no comments, no trailing commas, and proper quoting.", invalid.Err)
	case errors.Is(err, validation.ErrNotArray):
		return "elements must be a JSON array."
	default:
		return "Render failed: " + err.Error()
	}
}

func requestedFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return renderer.FormatPNG
	}
	return format
}
