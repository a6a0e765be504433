// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"

	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// DiagramRenderer defines the interface for rendering element scenes
type DiagramRenderer interface {
	// Render renders elementsJSON and returns the absolute path written
	Render(ctx context.Context, elementsJSON string, opts renderer.Options) (string, error)

	// Shutdown releases the rendering surface
	Shutdown(ctx context.Context)
}

// PathValidator defines the interface for validating file paths
type PathValidator interface {
	// ValidateOutputPath validates an output path for safety and accessibility
	ValidateOutputPath(path string) error

	// ValidateInputPath validates an input path
	ValidateInputPath(path string, mustBeDir bool) error
}

// DiagramGenerator defines the interface for generating diagrams
type DiagramGenerator interface {
	// Generate validates a diagram request, renders it and inspects the result
	Generate(ctx context.Context, cfg DiagramConfig) (*GenerateResult, error)
}

// DiagramConfig contains everything needed to generate a diagram
type DiagramConfig struct {
	Elements   string
	OutputPath string
	Format     string
	Scale      float64
}

// GenerateResult contains the results of diagram generation
type GenerateResult struct {
	OutputPath string
	Format     string
	Width      int64
	Height     int64
	Bytes      int64
}

var _ DiagramRenderer = (*renderer.Renderer)(nil)
