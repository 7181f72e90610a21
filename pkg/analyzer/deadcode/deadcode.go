package deadcode

import (
	"github.com/panbanda/scry/pkg/analyzer"
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
)

// Name identifies the analyzer.
const Name = "deadcode"

// Message is reported for every unreachable statement.
const Message = "Unreachable code detected after return/break/continue."

// Ensure Analyzer implements analyzer.Analyzer.
var _ analyzer.Analyzer = (*Analyzer)(nil)

// Analyzer reports statements that follow a terminal statement in the same
// function body. Only the top level of each body is scanned.
type Analyzer struct{}

// New creates a new dead code analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Name returns the analyzer name.
func (a *Analyzer) Name() string { return Name }

// Analyze returns one issue per unreachable statement, functions in
// pre-order. Statements sharing a line yield one issue each; the review
// engine deduplicates them.
func (a *Analyzer) Analyze(mod *ast.Module) []models.Issue {
	var issues []models.Issue
	for _, fn := range ast.Functions(mod) {
		for _, stmt := range Unreachable(fn.Body) {
			issues = append(issues, models.NewIssue(stmt.Pos(), models.CategoryUnreachableCode, Message))
		}
	}
	return issues
}

// Unreachable returns the statements of body that follow its first
// terminal statement, skipping nested function and class definitions.
func Unreachable(body []ast.Stmt) []ast.Stmt {
	for i, stmt := range body {
		if !IsTerminal(stmt) {
			continue
		}
		var out []ast.Stmt
		for _, rest := range body[i+1:] {
			switch rest.(type) {
			case *ast.FunctionDef, *ast.ClassDef:
				continue
			}
			out = append(out, rest)
		}
		return out
	}
	return nil
}

// IsTerminal reports whether stmt unconditionally leaves its block.
func IsTerminal(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.Return, *ast.Raise, *ast.Break, *ast.Continue:
		return true
	}
	return false
}
