// Package fixer suggests code fixes for review issues. Common issue kinds
// get a canned fix; anything else is sent to a text generator with a window
// of the surrounding source.
package fixer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/panbanda/scry/pkg/models"
)

const (
	// DefaultContextLines is the number of lines kept on each side of the issue.
	DefaultContextLines = 10
	// DefaultMaxChars caps the code window sent to the generator.
	DefaultMaxChars = 1000
)

var codeBlock = regexp.MustCompile("(?s)```(?:python)?\n(.*?)```")

// Request describes one issue to fix.
type Request struct {
	Source   string
	Message  string
	Line     int // 0 when the location is unknown
	Category models.Category
}

type rule struct {
	categories []models.Category
	phrases    []string
	fix        string
}

var rules = []rule{
	{
		[]models.Category{models.CategoryUnusedImport},
		[]string{"unused import"},
		"# Removed unused import",
	},
	{
		[]models.Category{models.CategoryUnusedVariable},
		[]string{"never used"},
		"_ = 0  # replaced unused variable with '_'",
	},
	{
		[]models.Category{models.CategoryUnreachableCode},
		[]string{"unreachable code"},
		"# Removed unreachable code (after return/break/continue)",
	},
	{
		[]models.Category{models.CategoryInefficientLoop, models.CategoryNestedLoop},
		[]string{"inefficient loop", "nested loop"},
		"# Consider optimizing the loop with a list comprehension or flattening",
	},
}

// RuleFix returns the canned fix for an issue, if one applies.
func RuleFix(category models.Category, message string) (string, bool) {
	desc := strings.ToLower(message)
	for _, r := range rules {
		if slices.Contains(r.categories, category) {
			return fence(r.fix), true
		}
		for _, p := range r.phrases {
			if strings.Contains(desc, p) {
				return fence(r.fix), true
			}
		}
	}
	return "", false
}

// Suggester produces fix suggestions.
type Suggester struct {
	gen          Generator
	prompt       *Prompt
	cache        *Cache
	logger       *slog.Logger
	contextLines int
	maxChars     int
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithGenerator sets the text generator.
func WithGenerator(g Generator) Option {
	return func(s *Suggester) { s.gen = g }
}

// WithCache sets the fix cache.
func WithCache(c *Cache) Option {
	return func(s *Suggester) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Suggester) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWindow sets the context size around the issue line.
func WithWindow(lines, maxChars int) Option {
	return func(s *Suggester) {
		if lines > 0 {
			s.contextLines = lines
		}
		if maxChars > 0 {
			s.maxChars = maxChars
		}
	}
}

// WithPrompt replaces the embedded prompt.
func WithPrompt(p *Prompt) Option {
	return func(s *Suggester) {
		if p != nil {
			s.prompt = p
		}
	}
}

// New creates a Suggester. Without a generator only canned fixes and
// fallback blocks are produced.
func New(opts ...Option) (*Suggester, error) {
	prompt, err := DefaultPrompt()
	if err != nil {
		return nil, err
	}
	s := &Suggester{
		prompt:       prompt,
		cache:        NewCache(DefaultCacheSize),
		logger:       slog.New(slog.DiscardHandler),
		contextLines: DefaultContextLines,
		maxChars:     DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Suggest returns a fenced python block with a fix for the issue. It never
// fails: generator errors become a commented fallback block.
func (s *Suggester) Suggest(ctx context.Context, req Request) string {
	if fix, ok := RuleFix(req.Category, req.Message); ok {
		return fix
	}

	var code string
	if req.Line > 0 {
		code = Window(req.Source, req.Line, s.contextLines, s.maxChars)
	} else {
		code = truncate(req.Source, s.maxChars)
	}

	key := Key(code, req.Message)
	if fix, ok := s.cache.Get(key); ok {
		return fix
	}

	if s.gen == nil {
		return Fallback(req.Message, ErrNoGenerator)
	}

	prompt, err := s.prompt.Render(req.Message, code)
	if err != nil {
		return Fallback(req.Message, err)
	}

	s.logger.Info("requesting fix", "issue", req.Message, "line", req.Line)
	raw, err := s.gen.Generate(ctx, prompt, s.prompt.Params)
	if err != nil {
		s.logger.Error("fix generation failed", "issue", req.Message, "error", err)
		return Fallback(req.Message, err)
	}

	fix := Clean(raw)
	s.cache.Put(key, fix)
	return fix
}

// Window returns the lines around line (1-based), truncated to maxChars.
func Window(source string, line, context, maxChars int) string {
	lines := splitLines(source)
	start := max(0, line-context)
	end := min(len(lines), line+context)
	if start >= end {
		return ""
	}
	return truncate(strings.Join(lines[start:end], "\n"), maxChars)
}

// Clean reduces generator output to a single fenced python block.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.Contains(text, "```") {
		return fence("# AI-generated (incomplete)\n" + text)
	}
	if m := codeBlock.FindStringSubmatch(text); m != nil {
		return fence(strings.TrimSpace(m[1]))
	}
	return fence(text)
}

// Fallback is the block returned when no fix could be generated.
func Fallback(description string, err error) string {
	return fence(fmt.Sprintf("# AI Fix not available for: %s\n# Error: %v", description, err))
}

func fence(code string) string {
	return "```python\n" + code + "\n```"
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
