// Package mcpserver exposes scry reviews over the Model Context Protocol.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/scry/internal/service/analysis"
)

// Server wraps the MCP server and registers the review tools.
type Server struct {
	server *mcp.Server
	svc    *analysis.Service
	logger *slog.Logger
}

// NewServer creates an MCP server backed by svc.
func NewServer(version string, svc *analysis.Service, logger *slog.Logger) *Server {
	if version == "" {
		version = "dev"
	}
	if svc == nil {
		svc = analysis.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "scry",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, svc: svc, logger: logger}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_python_files",
		Description: describeReviewFiles(),
	}, s.handleReviewFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_python_source",
		Description: describeReviewSource(),
	}, s.handleReviewSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_fix",
		Description: describeSuggestFix(),
	}, s.handleSuggestFix)
}
