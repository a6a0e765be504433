package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

func (s *Server) handleReadMe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toolkit.Reference()), nil
}

// handleCreateDiagram never returns a Go error: failures are reported as
// error results so the session survives them
func (s *Server) handleCreateDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	elements, ok := args["elements"].(string)
	if !ok {
		return mcp.NewToolResultError("elements is required and must be a string containing a JSON array."), nil
	}

	cfg := interfaces.DiagramConfig{Elements: elements}
	if p, ok := args["outputPath"].(string); ok {
		cfg.OutputPath = p
	}
	if f, ok := args["format"].(string); ok {
		cfg.Format = f
	}
	if sc, ok := args["scale"].(float64); ok {
		cfg.Scale = sc
	}

	started := time.Now()
	res := toolkit.RunTool(ctx, s.gen, cfg)
	if res.IsError {
		s.logger.Warn("render tool call failed", "error", res.Err)
		return mcp.NewToolResultError(res.Text), nil
	}

	out := res.Generated
	s.logger.Info("render tool call succeeded", "path", out.OutputPath, "format", out.Format,
		"width", out.Width, "height", out.Height, "elapsed", time.Since(started).Round(time.Millisecond))
	return mcp.NewToolResultText(res.Text), nil
}
