// Package review runs the single-module analyzers over Python source and
// merges their findings into one deduplicated, order-stable issue list.
//
// An Engine holds configuration only. Every call parses with its own
// tree-sitter parser and keeps its accumulators local, so one Engine may be
// shared between goroutines.
package review

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/panbanda/scry/internal/cache"
	"github.com/panbanda/scry/internal/logging"
	"github.com/panbanda/scry/pkg/analyzer"
	"github.com/panbanda/scry/pkg/analyzer/complexity"
	"github.com/panbanda/scry/pkg/analyzer/deadcode"
	"github.com/panbanda/scry/pkg/analyzer/loops"
	"github.com/panbanda/scry/pkg/analyzer/symbols"
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/ast/treesitter"
	"github.com/panbanda/scry/pkg/models"
)

// Engine reviews Python source units.
type Engine struct {
	threshold  int
	disabled   map[string]bool
	custom     []analyzer.Analyzer
	analyzers  []analyzer.Analyzer
	logger     *slog.Logger
	cache      *cache.Cache
	maxWorkers int
	onProgress func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithComplexityThreshold sets the score above which a function is
// reported. Values below 1 keep the default.
func WithComplexityThreshold(threshold int) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithDisabled turns off the named analyzers.
func WithDisabled(names ...string) Option {
	return func(e *Engine) {
		for _, name := range names {
			e.disabled[name] = true
		}
	}
}

// WithAnalyzers replaces the default analyzer set. Streams are merged in
// the order given.
func WithAnalyzers(analyzers ...analyzer.Analyzer) Option {
	return func(e *Engine) {
		e.custom = analyzers
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCache sets the per-file review cache used by AnalyzeFile and
// AnalyzeFiles.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithMaxWorkers bounds the number of files reviewed concurrently.
func WithMaxWorkers(n int) Option {
	return func(e *Engine) {
		e.maxWorkers = n
	}
}

// WithProgress sets a callback invoked after each file of AnalyzeFiles.
func WithProgress(fn func()) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// New creates an engine. By default it runs, in order, the symbol usage
// tracker, the complexity analyzer, the dead code detector and the loop
// pattern detector.
func New(opts ...Option) *Engine {
	e := &Engine{
		threshold: models.DefaultComplexityThreshold,
		disabled:  make(map[string]bool),
		logger:    logging.Discard(),
		cache:     cache.Disabled(),
	}
	for _, opt := range opts {
		opt(e)
	}

	all := e.custom
	if all == nil {
		all = DefaultAnalyzers(e.threshold)
	}
	for _, a := range all {
		if !e.disabled[a.Name()] {
			e.analyzers = append(e.analyzers, a)
		}
	}
	return e
}

// DefaultAnalyzers returns the canonical analyzer set in stream order.
func DefaultAnalyzers(threshold int) []analyzer.Analyzer {
	return []analyzer.Analyzer{
		symbols.New(),
		complexity.New(complexity.WithThreshold(threshold)),
		deadcode.New(),
		loops.New(),
	}
}

// Threshold returns the configured complexity threshold.
func (e *Engine) Threshold() int { return e.threshold }

// Analyzers returns the names of the enabled analyzers in stream order.
func (e *Engine) Analyzers() []string {
	names := make([]string, len(e.analyzers))
	for i, a := range e.analyzers {
		names[i] = a.Name()
	}
	return names
}

// settings identifies the configuration a cached review was produced with.
func (e *Engine) settings() string {
	return fmt.Sprintf("threshold=%d;analyzers=%s", e.threshold, strings.Join(e.Analyzers(), ","))
}

// Analyze parses source and returns the merged findings of every enabled
// analyzer. Source that does not parse yields exactly one line-0 issue
// without a category and no analyzer runs. Analyze never panics.
func (e *Engine) Analyze(source []byte) []models.Issue {
	p := treesitter.New()
	defer p.Close()
	return e.review(p, source, "").Issues
}

// AnalyzeModule runs every enabled analyzer over an already parsed module.
// A panicking analyzer contributes one analyzer_error issue and the others
// still run.
func (e *Engine) AnalyzeModule(mod *ast.Module) []models.Issue {
	streams := make([][]models.Issue, 0, len(e.analyzers))
	for _, a := range e.analyzers {
		streams = append(streams, e.run(a, mod))
	}
	return Aggregate(streams...)
}

// Review parses and analyzes one source unit and also records per-function
// complexity.
func (e *Engine) Review(source []byte, path string) models.FileReview {
	p := treesitter.New()
	defer p.Close()
	return e.review(p, source, path)
}

func (e *Engine) review(p *treesitter.Provider, source []byte, path string) models.FileReview {
	r := models.FileReview{Path: path}

	mod, err := parse(p, source, path)
	if err != nil {
		e.logger.Debug("parse failed", "path", path, "error", err)
		r.Issues = []models.Issue{ParseErrorIssue(err)}
		return r
	}

	r.Issues = e.AnalyzeModule(mod)
	r.Functions = e.measure(mod)
	return r
}

// ParseErrorIssue is the single issue reported for source that does not
// parse.
func ParseErrorIssue(err error) models.Issue {
	return models.NewIssue(0, models.CategoryNone, fmt.Sprintf("Error parsing code: %v", err))
}

func parse(p *treesitter.Provider, source []byte, path string) (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return p.Parse(source, path)
}

func (e *Engine) run(a analyzer.Analyzer, mod *ast.Module) (issues []models.Issue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analyzer failed", "analyzer", a.Name(), "panic", r)
			issues = []models.Issue{
				models.NewIssue(0, models.CategoryAnalyzerError, fmt.Sprintf("Analyzer %s failed: %v", a.Name(), r)),
			}
		}
	}()
	return a.Analyze(mod)
}

func (e *Engine) measure(mod *ast.Module) (out []models.FunctionComplexity) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("complexity measurement failed", "panic", r)
			out = nil
		}
	}()
	return complexity.Measure(mod)
}
