package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/scry/internal/output"
	"github.com/panbanda/scry/internal/service/analysis"
	"github.com/panbanda/scry/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	return NewServer("1.0.0-test", analysis.New(analysis.WithConfig(cfg)), nil)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent: %T", result.Content[0])
	}
	return text.Text
}

// TestServerCreation verifies the MCP server can be created without panicking.
func TestServerCreation(t *testing.T) {
	server := newTestServer(t)
	if server.server == nil {
		t.Fatal("NewServer().server is nil")
	}
	if NewServer("", nil, nil) == nil {
		t.Fatal("NewServer with defaults returned nil")
	}
}

func TestToolDescriptions(t *testing.T) {
	for name, fn := range map[string]func() string{
		"review_files":  describeReviewFiles,
		"review_source": describeReviewSource,
		"suggest_fix":   describeSuggestFix,
	} {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			for _, section := range []string{"USE WHEN:", "INTERPRETING RESULTS:", "METRICS RETURNED:"} {
				if !strings.Contains(desc, section) {
					t.Errorf("%s description missing %s", name, section)
				}
			}
		})
	}
}

func TestGetPaths(t *testing.T) {
	if got := getPaths(ReviewFilesInput{}); len(got) != 1 || got[0] != "." {
		t.Errorf("getPaths(empty) = %v", got)
	}
	if got := getPaths(ReviewFilesInput{Paths: []string{"a", "b"}}); len(got) != 2 {
		t.Errorf("getPaths() = %v", got)
	}
}

func TestGetFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected output.Format
	}{
		{"", output.FormatTOON},
		{"json", output.FormatJSON},
		{"JSON", output.FormatJSON},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"toon", output.FormatTOON},
		{"xml", output.FormatTOON},
	}
	for _, tt := range tests {
		if got := getFormat(tt.format); got != tt.expected {
			t.Errorf("getFormat(%q) = %v, want %v", tt.format, got, tt.expected)
		}
	}
}

func TestToolError(t *testing.T) {
	result, _, err := toolError("test error message")
	if err != nil {
		t.Fatalf("toolError returned unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("toolError result.IsError should be true")
	}
	if got := resultText(t, result); got != "Error: test error message" {
		t.Errorf("toolError text = %q", got)
	}
}

func TestHandleReviewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("import os\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t)

	result, _, err := s.handleReviewFiles(context.Background(), nil, ReviewFilesInput{Paths: []string{dir}, Format: "json"})
	if err != nil {
		t.Fatalf("handleReviewFiles returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("handleReviewFiles returned tool error: %s", resultText(t, result))
	}

	var data output.ReviewData
	if err := json.Unmarshal([]byte(resultText(t, result)), &data); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(data.Files) != 1 || len(data.Files[0].Issues) != 1 {
		t.Errorf("files = %+v", data.Files)
	}
	if data.Summary.Issues != 1 {
		t.Errorf("summary issues = %d, want 1", data.Summary.Issues)
	}
}

func TestHandleReviewFilesToon(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("import os\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t)

	result, _, err := s.handleReviewFiles(context.Background(), nil, ReviewFilesInput{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("handleReviewFiles returned error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "unused_import") {
		t.Errorf("toon output missing category:\n%s", text)
	}
}

func TestHandleReviewFilesEmpty(t *testing.T) {
	s := newTestServer(t)
	result, _, err := s.handleReviewFiles(context.Background(), nil, ReviewFilesInput{Paths: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("empty directory should be a tool error")
	}
}

func TestHandleReviewSource(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleReviewSource(context.Background(), nil, ReviewSourceInput{
		Code:   "def f():\n    return 1\n    print(2)\n",
		Format: "markdown",
	})
	if err != nil {
		t.Fatalf("handleReviewSource returned error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "<source>") || !strings.Contains(text, "Unreachable") {
		t.Errorf("markdown output = %s", text)
	}

	result, _, _ = s.handleReviewSource(context.Background(), nil, ReviewSourceInput{Code: "  "})
	if !result.IsError {
		t.Error("empty code should be a tool error")
	}
}

func TestHandleSuggestFix(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleSuggestFix(context.Background(), nil, SuggestFixInput{
		Code:     "import os\n",
		Issue:    "Unused import detected: 'os'. Consider removing it.",
		Line:     1,
		Category: "unused_import",
	})
	if err != nil {
		t.Fatalf("handleSuggestFix returned error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Removed unused import") {
		t.Errorf("fix = %q", text)
	}

	result, _, _ = s.handleSuggestFix(context.Background(), nil, SuggestFixInput{Code: "x"})
	if !result.IsError {
		t.Error("missing issue should be a tool error")
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, body := parseFrontmatter([]byte("---\ndescription: hi\narguments:\n  - name: paths\n    default: .\n---\nbody {{paths}}\n"))
	if fm.Description != "hi" || len(fm.Arguments) != 1 || fm.Arguments[0].Default != "." {
		t.Errorf("frontmatter = %+v", fm)
	}
	if body != "body {{paths}}\n" {
		t.Errorf("body = %q", body)
	}

	fm, body = parseFrontmatter([]byte("no frontmatter"))
	if fm.Description != "" || body != "no frontmatter" {
		t.Errorf("plain content = %+v %q", fm, body)
	}
}

func TestSubstituteArg(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]string
		defaultVal string
		expected   string
	}{
		{"use provided value", map[string]string{"paths": "src"}, ".", "review src now"},
		{"use default when missing", map[string]string{}, ".", "review . now"},
		{"use default when empty", map[string]string{"paths": ""}, ".", "review . now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteArg("review {{paths}} now", "paths", tt.args, tt.defaultVal); got != tt.expected {
				t.Errorf("substituteArg() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReviewPrompt(t *testing.T) {
	content, err := promptFiles.ReadFile("prompts/review_python.md")
	if err != nil {
		t.Fatalf("embedded prompt missing: %v", err)
	}
	fm, body := parseFrontmatter(content)
	if fm.Description == "" {
		t.Error("prompt description is empty")
	}

	handler := makePromptHandler(fm, body)
	result, err := handler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{
			Name:      "review_python",
			Arguments: map[string]string{"paths": "/custom/path"},
		},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(result.Messages) != 1 || result.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", result.Messages)
	}
	text := result.Messages[0].Content.(*mcp.TextContent).Text
	if !strings.Contains(text, "/custom/path") || !strings.Contains(text, "threshold 10") {
		t.Errorf("arguments not substituted:\n%s", text)
	}
	if strings.Contains(text, "{{") {
		t.Errorf("unsubstituted placeholder:\n%s", text)
	}
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatalf("GenerateManifest() error: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m.Name != "io.github.panbanda/scry" || m.Version != "1.2.3" {
		t.Errorf("manifest = %+v", m)
	}
	if len(m.Packages) != 1 || m.Packages[0].Identifier != "ghcr.io/panbanda/scry:1.2.3" {
		t.Errorf("packages = %+v", m.Packages)
	}
}
