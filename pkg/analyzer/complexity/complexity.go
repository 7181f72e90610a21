package complexity

import (
	"fmt"

	"github.com/panbanda/scry/pkg/analyzer"
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
)

// Name identifies the analyzer.
const Name = "complexity"

// Ensure Analyzer implements analyzer.Analyzer.
var _ analyzer.Analyzer = (*Analyzer)(nil)

// Analyzer computes cyclomatic complexity per function and reports the
// functions above a threshold.
type Analyzer struct {
	threshold int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithThreshold sets the score above which a function is reported.
func WithThreshold(threshold int) Option {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		threshold: models.DefaultComplexityThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the analyzer name.
func (a *Analyzer) Name() string { return Name }

// Threshold returns the configured threshold.
func (a *Analyzer) Threshold() int { return a.threshold }

// Analyze reports every function whose score exceeds the threshold, in
// pre-order of definition.
func (a *Analyzer) Analyze(mod *ast.Module) []models.Issue {
	var issues []models.Issue
	for _, fc := range Measure(mod) {
		if !fc.Exceeds(a.threshold) {
			continue
		}
		issues = append(issues, models.NewIssue(fc.Line, models.CategoryHighComplexity,
			fmt.Sprintf("Function '%s' has high cyclomatic complexity (%d). Consider refactoring.", fc.Name, fc.Score)))
	}
	return issues
}

// Measure returns the complexity of every function in mod, nested
// functions included, in pre-order.
func Measure(mod *ast.Module) []models.FunctionComplexity {
	fns := ast.Functions(mod)
	out := make([]models.FunctionComplexity, 0, len(fns))
	for _, fn := range fns {
		out = append(out, models.FunctionComplexity{
			Name:  fn.Name,
			Line:  fn.Line,
			Score: Score(fn),
		})
	}
	return out
}

// Score returns 1 plus the number of decision points anywhere below fn.
// Decision points inside nested functions count toward every enclosing
// function as well.
func Score(fn *ast.FunctionDef) int {
	score := 1
	ast.Inspect(fn, func(n ast.Node) bool {
		if IsDecisionPoint(n) {
			score++
		}
		return true
	})
	return score
}

// IsDecisionPoint reports whether n adds a path through a function.
func IsDecisionPoint(n ast.Node) bool {
	switch n.(type) {
	case *ast.If, *ast.For, *ast.While, *ast.BoolOp,
		*ast.ExceptHandler, *ast.With, *ast.Assert, *ast.Try:
		return true
	}
	return false
}
