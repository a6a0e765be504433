// Package mcpserver exposes the renderer as Model Context Protocol tools
// over stdio.
package mcpserver

import (
	"context"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

// Server identity reported during the protocol handshake
const (
	Name    = "Excalidraw"
	Version = "1.0.0"
)

// Server hosts the reference and render tools
type Server struct {
	mcp    *server.MCPServer
	gen    interfaces.DiagramGenerator
	logger hclog.Logger
}

// New creates a server rendering through gen
func New(gen interfaces.DiagramGenerator, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		mcp:    server.NewMCPServer(Name, Version, server.WithToolCapabilities(false)),
		gen:    gen,
		logger: logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying protocol server
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve handles protocol messages from in until ctx is done or in closes.
// Logs go to the server's logger; out carries protocol messages only.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}))

	s.logger.Info("serving tools over stdio", "name", Name, "version", Version)
	return stdio.Listen(ctx, in, out)
}

func boolPtr(b bool) *bool { return &b }

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool(toolkit.ReferenceToolName,
		mcp.WithDescription(toolkit.ReferenceToolDescription),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleReadMe)

	s.mcp.AddTool(mcp.NewTool(toolkit.RenderToolName,
		mcp.WithDescription(toolkit.RenderToolDescription),
		mcp.WithString("elements", mcp.Description(toolkit.ElementsDescription), mcp.Required()),
		mcp.WithString("outputPath", mcp.Description(toolkit.OutputPathDescription)),
		mcp.WithString("format", mcp.Description(toolkit.FormatDescription), mcp.Enum("png", "svg")),
		mcp.WithNumber("scale", mcp.Description(toolkit.ScaleDescription)),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleCreateDiagram)
}
