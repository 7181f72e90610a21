package analyzer

import (
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
)

// Analyzer is the interface every single-module detector implements.
// Analyze must treat the tree as read-only and keep all of its state local
// to the call, so one Analyzer may serve concurrent callers.
type Analyzer interface {
	// Name identifies the analyzer in fault reports and configuration.
	Name() string

	// Analyze inspects one module and returns its findings in a
	// deterministic order.
	Analyze(mod *ast.Module) []models.Issue
}

// Func adapts a plain function to the Analyzer interface.
type Func struct {
	ID string
	Fn func(mod *ast.Module) []models.Issue
}

// Name returns the analyzer name.
func (f Func) Name() string { return f.ID }

// Analyze calls the wrapped function.
func (f Func) Analyze(mod *ast.Module) []models.Issue { return f.Fn(mod) }
