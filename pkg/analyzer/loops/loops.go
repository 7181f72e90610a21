// Package loops detects inefficient loop idioms: range(len(x)) iteration,
// collection mutation inside a loop, and directly nested loops.
package loops

import (
	"github.com/panbanda/scry/pkg/analyzer"
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
)

// Name identifies the analyzer.
const Name = "loops"

const (
	msgRangeLen = "Inefficient loop: prefer direct iteration over the sequence instead of range(len(x))."
	msgMutation = "Possible mutation during iteration: append/remove/pop is called inside the loop body. " +
		"Consider iterating over a copy or using a comprehension."
	msgNested = "Nested loop detected: consider optimizing."
)

var mutators = map[string]bool{
	"append": true,
	"remove": true,
	"pop":    true,
}

// Ensure Analyzer implements analyzer.Analyzer.
var _ analyzer.Analyzer = (*Analyzer)(nil)

// Analyzer reports loop patterns.
type Analyzer struct{}

// New creates a new loop pattern analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Name returns the analyzer name.
func (a *Analyzer) Name() string { return Name }

// Analyze checks every loop in pre-order. For loops get all three checks,
// while loops only the nested loop check.
func (a *Analyzer) Analyze(mod *ast.Module) []models.Issue {
	var issues []models.Issue
	ast.Inspect(mod, func(n ast.Node) bool {
		switch loop := n.(type) {
		case *ast.For:
			if IsRangeLen(loop.Iter) {
				issues = append(issues, models.NewIssue(loop.Line, models.CategoryInefficientLoop, msgRangeLen))
			}
			if _, ok := loop.Target.(*ast.Name); ok && MutatesInBody(loop.Body) {
				issues = append(issues, models.NewIssue(loop.Line, models.CategoryMutationDuringIteration, msgMutation))
			}
			issues = append(issues, nestedLoops(loop.Body)...)
		case *ast.While:
			issues = append(issues, nestedLoops(loop.Body)...)
		}
		return true
	})
	return issues
}

// IsRangeLen reports whether e is range(len(<expr>)) with exactly one
// positional argument to each call.
func IsRangeLen(e ast.Expr) bool {
	outer, ok := e.(*ast.Call)
	if !ok || !isCallTo(outer, "range") || len(outer.Args) != 1 {
		return false
	}
	inner, ok := outer.Args[0].(*ast.Call)
	return ok && isCallTo(inner, "len") && len(inner.Args) == 1
}

func isCallTo(call *ast.Call, name string) bool {
	fn, ok := call.Func.(*ast.Name)
	return ok && fn.ID == name
}

// MutatesInBody reports whether any statement of body contains a method
// call named append, remove or pop.
func MutatesInBody(body []ast.Stmt) bool {
	found := false
	for _, stmt := range body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if found {
				return false
			}
			call, ok := n.(*ast.Call)
			if !ok {
				return true
			}
			if attr, ok := call.Func.(*ast.Attribute); ok && mutators[attr.Attr] {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

func nestedLoops(body []ast.Stmt) []models.Issue {
	var issues []models.Issue
	for _, stmt := range body {
		if ast.IsLoop(stmt) {
			issues = append(issues, models.NewIssue(stmt.Pos(), models.CategoryNestedLoop, msgNested))
		}
	}
	return issues
}
