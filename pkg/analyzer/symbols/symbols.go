package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/panbanda/scry/pkg/analyzer"
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
)

// Name identifies the analyzer.
const Name = "symbols"

// Ensure Analyzer implements analyzer.Analyzer.
var _ analyzer.Analyzer = (*Analyzer)(nil)

// Analyzer reports unused imports and unused variables.
//
// Usage is whole-module: a name loaded anywhere in the module counts as used
// no matter where it is bound, and only the last binding line of a variable
// is kept.
type Analyzer struct{}

// New creates a new symbol usage analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Name returns the analyzer name.
func (a *Analyzer) Name() string { return Name }

// Analyze returns unused-import issues followed by unused-variable issues.
func (a *Analyzer) Analyze(mod *ast.Module) []models.Issue {
	u := Track(mod)
	return append(u.UnusedImports(), u.UnusedVariables()...)
}

// Usage accumulates binding and load sites for one module.
type Usage struct {
	defined models.SymbolRecord
	used    map[string]bool
	imports map[string]*models.ImportRecord
}

// Track walks mod once and returns its symbol usage.
func Track(mod *ast.Module) *Usage {
	u := &Usage{
		defined: make(models.SymbolRecord),
		used:    make(map[string]bool),
		imports: make(map[string]*models.ImportRecord),
	}
	ast.Walk(u, mod)
	for name, rec := range u.imports {
		rec.Used = u.used[name]
	}
	return u
}

// Visit implements ast.Visitor.
func (u *Usage) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case *ast.Import:
		for _, alias := range n.Names {
			u.bindImport(importedName(alias), n.Line)
		}
	case *ast.ImportFrom:
		if n.Level == 0 && n.Module == "__future__" {
			break
		}
		for _, alias := range n.Names {
			if alias.Name == "*" {
				continue
			}
			name := alias.AsName
			if name == "" {
				name = alias.Name
			}
			u.bindImport(name, n.Line)
		}
	case *ast.Name:
		switch n.Ctx {
		case ast.Store:
			u.defined.Bind(n.ID, n.Line)
		case ast.Load:
			u.used[n.ID] = true
		}
	}
	return u
}

func (u *Usage) bindImport(name string, line int) {
	if name == "" {
		return
	}
	if _, ok := u.imports[name]; ok {
		return
	}
	u.imports[name] = &models.ImportRecord{Name: name, Line: line}
}

// importedName is the name an import statement binds: the alias, or the
// first component of a dotted module path.
func importedName(alias ast.Alias) string {
	if alias.AsName != "" {
		return alias.AsName
	}
	if i := strings.IndexByte(alias.Name, '.'); i >= 0 {
		return alias.Name[:i]
	}
	return alias.Name
}

// Imports returns the import records sorted by line and name.
func (u *Usage) Imports() []models.ImportRecord {
	out := make([]models.ImportRecord, 0, len(u.imports))
	for _, rec := range u.imports {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Used reports whether name is loaded anywhere in the module.
func (u *Usage) Used(name string) bool {
	return u.used[name]
}

// UnusedImports returns one issue per imported name that is never loaded.
func (u *Usage) UnusedImports() []models.Issue {
	var issues []models.Issue
	for _, rec := range u.Imports() {
		if rec.Used {
			continue
		}
		issues = append(issues, models.NewIssue(rec.Line, models.CategoryUnusedImport,
			fmt.Sprintf("Unused import detected: '%s'. Consider removing it.", rec.Name)))
	}
	return issues
}

// UnusedVariables returns one issue per bound name that is never loaded,
// located at its last binding.
func (u *Usage) UnusedVariables() []models.Issue {
	type binding struct {
		name string
		line int
	}
	var unused []binding
	for name, line := range u.defined {
		if !u.used[name] {
			unused = append(unused, binding{name, line})
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		if unused[i].line != unused[j].line {
			return unused[i].line < unused[j].line
		}
		return unused[i].name < unused[j].name
	})

	issues := make([]models.Issue, 0, len(unused))
	for _, b := range unused {
		issues = append(issues, models.NewIssue(b.line, models.CategoryUnusedVariable,
			fmt.Sprintf("Variable '%s' is assigned but never used.", b.name)))
	}
	return issues
}
