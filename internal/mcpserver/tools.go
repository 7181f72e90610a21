package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/scry/internal/fixer"
	"github.com/panbanda/scry/internal/output"
	"github.com/panbanda/scry/internal/service/analysis"
	"github.com/panbanda/scry/pkg/models"
)

// ReviewFilesInput is the input of review_python_files.
type ReviewFilesInput struct {
	Paths     []string `json:"paths,omitempty" jsonschema:"Files or directories to review. Defaults to the current directory."`
	Threshold int      `json:"threshold,omitempty" jsonschema:"Cyclomatic complexity threshold. Defaults to the configured value."`
	Format    string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ReviewSourceInput is the input of review_python_source.
type ReviewSourceInput struct {
	Code      string `json:"code" jsonschema:"Python source to review."`
	Filename  string `json:"filename,omitempty" jsonschema:"Name used to label the source. Defaults to <source>."`
	Threshold int    `json:"threshold,omitempty" jsonschema:"Cyclomatic complexity threshold. Defaults to the configured value."`
	Format    string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// SuggestFixInput is the input of suggest_fix.
type SuggestFixInput struct {
	Code     string `json:"code" jsonschema:"Python source containing the issue."`
	Issue    string `json:"issue" jsonschema:"Issue message as reported by a review tool."`
	Line     int    `json:"line,omitempty" jsonschema:"1-based line of the issue. 0 when unknown."`
	Category string `json:"category,omitempty" jsonschema:"Issue category, for example unused_import."`
}

// FixOutput is the result of suggest_fix.
type FixOutput struct {
	Fix string `json:"fix" toon:"fix"`
}

func getPaths(input ReviewFilesInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(format string) output.Format {
	switch strings.ToLower(format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// toolResult renders r in format as the text content of a tool result.
func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	var b strings.Builder
	if err := output.Render(&b, format, r, false); err != nil {
		return nil, nil, err
	}
	return textResult(strings.TrimRight(b.String(), "\n")), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleReviewFiles(ctx context.Context, req *mcp.CallToolRequest, input ReviewFilesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.svc.ReviewPaths(ctx, getPaths(input), analysis.ReviewOptions{Threshold: input.Threshold})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result.Render(), getFormat(input.Format))
}

func (s *Server) handleReviewSource(ctx context.Context, req *mcp.CallToolRequest, input ReviewSourceInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Code) == "" {
		return toolError("code is required")
	}
	name := input.Filename
	if name == "" {
		name = "<source>"
	}
	result := s.svc.ReviewSource([]byte(input.Code), name, analysis.ReviewOptions{Threshold: input.Threshold})
	return toolResult(result.Render(), getFormat(input.Format))
}

func (s *Server) handleSuggestFix(ctx context.Context, req *mcp.CallToolRequest, input SuggestFixInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Issue) == "" {
		return toolError("issue is required")
	}
	sg, err := s.svc.Suggester()
	if err != nil {
		return toolError(err.Error())
	}
	fix := sg.Suggest(ctx, fixer.Request{
		Source:   input.Code,
		Message:  input.Issue,
		Line:     input.Line,
		Category: models.Category(input.Category),
	})
	out, err := toon.Marshal(FixOutput{Fix: fix}, toon.WithIndent(2))
	if err != nil {
		return toolError(err.Error())
	}
	return textResult(string(out)), nil, nil
}
