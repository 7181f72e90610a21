package treesitter

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/parser"
)

// ErrEmptyTree is returned when a parse result carries no tree.
var ErrEmptyTree = errors.New("treesitter: empty parse tree")

// Convert builds an ast.Module from a tree-sitter parse result. The result
// is expected to be free of syntax errors; error nodes that slip through
// become OtherStmt or OtherExpr nodes.
func Convert(result *parser.ParseResult) (*ast.Module, error) {
	root := result.Root()
	if root == nil {
		return nil, ErrEmptyTree
	}
	if root.Type() != "module" {
		return nil, fmt.Errorf("treesitter: unexpected root node %q", root.Type())
	}
	c := &converter{src: result.Source}
	return &ast.Module{Path: result.Path, Body: c.block(root)}, nil
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return parser.GetNodeText(n, c.src)
}

func line(n *sitter.Node) int {
	return parser.Line(n)
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.Type() == "comment" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// hasToken reports whether n has a direct anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch != nil && !ch.IsNamed() && ch.Type() == tok {
			return true
		}
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func isStatement(nodeType string) bool {
	return strings.HasSuffix(nodeType, "_statement") || strings.HasSuffix(nodeType, "_definition")
}

// block converts the statements of a block or module node.
func (c *converter) block(n *sitter.Node) []ast.Stmt {
	kids := namedChildren(n)
	if len(kids) == 0 {
		return nil
	}
	out := make([]ast.Stmt, 0, len(kids))
	for _, ch := range kids {
		out = append(out, c.stmt(ch))
	}
	return out
}

func (c *converter) stmt(n *sitter.Node) ast.Stmt {
	ln := line(n)
	switch n.Type() {
	case "import_statement":
		return &ast.Import{Line: ln, Names: c.aliases(namedChildren(n))}
	case "future_import_statement":
		return &ast.ImportFrom{Line: ln, Module: "__future__", Names: c.aliases(namedChildren(n))}
	case "import_from_statement":
		return c.importFrom(n)
	case "expression_statement":
		return c.exprStatement(n)
	case "return_statement":
		return &ast.Return{Line: ln, Value: c.exprList(namedChildren(n))}
	case "delete_statement":
		return &ast.Delete{Line: ln, Targets: c.deleteTargets(n)}
	case "raise_statement":
		cause := n.ChildByFieldName("cause")
		r := &ast.Raise{Line: ln, Cause: c.expr(cause)}
		for _, ch := range namedChildren(n) {
			if !sameNode(ch, cause) {
				r.Exc = c.expr(ch)
				break
			}
		}
		return r
	case "pass_statement":
		return &ast.Pass{Line: ln}
	case "break_statement":
		return &ast.Break{Line: ln}
	case "continue_statement":
		return &ast.Continue{Line: ln}
	case "global_statement", "nonlocal_statement":
		g := &ast.Global{Line: ln, Nonlocal: n.Type() == "nonlocal_statement"}
		for _, ch := range namedChildren(n) {
			g.Names = append(g.Names, c.text(ch))
		}
		return g
	case "assert_statement":
		kids := namedChildren(n)
		a := &ast.Assert{Line: ln}
		if len(kids) > 0 {
			a.Test = c.expr(kids[0])
		}
		if len(kids) > 1 {
			a.Msg = c.expr(kids[1])
		}
		return a
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return &ast.For{
			Line:   ln,
			Async:  hasToken(n, "async"),
			Target: c.target(n.ChildByFieldName("left"), ast.Store),
			Iter:   c.expr(n.ChildByFieldName("right")),
			Body:   c.block(n.ChildByFieldName("body")),
			Orelse: c.elseBlock(n.ChildByFieldName("alternative")),
		}
	case "while_statement":
		return &ast.While{
			Line:   ln,
			Test:   c.expr(n.ChildByFieldName("condition")),
			Body:   c.block(n.ChildByFieldName("body")),
			Orelse: c.elseBlock(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.tryStatement(n)
	case "with_statement":
		return c.withStatement(n)
	case "function_definition":
		return c.functionDef(n)
	case "class_definition":
		return c.classDef(n)
	case "decorated_definition":
		return c.decorated(n)
	default:
		return c.other(n)
	}
}

func (c *converter) aliases(nodes []*sitter.Node) []ast.Alias {
	var out []ast.Alias
	for _, ch := range nodes {
		switch ch.Type() {
		case "dotted_name", "identifier":
			out = append(out, ast.Alias{Name: c.text(ch)})
		case "aliased_import":
			out = append(out, ast.Alias{
				Name:   c.text(ch.ChildByFieldName("name")),
				AsName: c.text(ch.ChildByFieldName("alias")),
			})
		case "wildcard_import":
			out = append(out, ast.Alias{Name: "*"})
		}
	}
	return out
}

func (c *converter) importFrom(n *sitter.Node) *ast.ImportFrom {
	imp := &ast.ImportFrom{Line: line(n)}
	mod := n.ChildByFieldName("module_name")
	if mod != nil {
		if mod.Type() == "relative_import" {
			for _, ch := range namedChildren(mod) {
				switch ch.Type() {
				case "import_prefix":
					imp.Level = strings.Count(c.text(ch), ".")
				case "dotted_name":
					imp.Module = c.text(ch)
				}
			}
		} else {
			imp.Module = c.text(mod)
		}
	}

	var names []*sitter.Node
	for _, ch := range namedChildren(n) {
		if !sameNode(ch, mod) {
			names = append(names, ch)
		}
	}
	imp.Names = c.aliases(names)
	return imp
}

func (c *converter) exprStatement(n *sitter.Node) ast.Stmt {
	ln := line(n)
	kids := namedChildren(n)
	if len(kids) != 1 {
		return &ast.ExprStmt{Line: ln, Value: c.exprList(kids)}
	}
	ch := kids[0]
	switch ch.Type() {
	case "assignment":
		return c.assignment(ch)
	case "augmented_assignment":
		return &ast.AugAssign{
			Line:   ln,
			Target: c.target(ch.ChildByFieldName("left"), ast.Store),
			Op:     c.text(ch.ChildByFieldName("operator")),
			Value:  c.expr(ch.ChildByFieldName("right")),
		}
	}
	return &ast.ExprStmt{Line: ln, Value: c.expr(ch)}
}

// assignment flattens a = b = value into one Assign with two targets.
func (c *converter) assignment(n *sitter.Node) ast.Stmt {
	ln := line(n)
	if typ := n.ChildByFieldName("type"); typ != nil {
		return &ast.AnnAssign{
			Line:       ln,
			Target:     c.target(n.ChildByFieldName("left"), ast.Store),
			Annotation: c.expr(typ),
			Value:      c.expr(n.ChildByFieldName("right")),
		}
	}

	assign := &ast.Assign{Line: ln}
	cur := n
	for {
		assign.Targets = append(assign.Targets, c.target(cur.ChildByFieldName("left"), ast.Store))
		right := cur.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
			cur = right
			continue
		}
		assign.Value = c.expr(right)
		return assign
	}
}

func (c *converter) deleteTargets(n *sitter.Node) []ast.Expr {
	var out []ast.Expr
	for _, ch := range namedChildren(n) {
		if ch.Type() == "expression_list" {
			for _, t := range namedChildren(ch) {
				out = append(out, c.target(t, ast.Del))
			}
			continue
		}
		out = append(out, c.target(ch, ast.Del))
	}
	return out
}

func (c *converter) elseBlock(n *sitter.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	if body := n.ChildByFieldName("body"); body != nil {
		return c.block(body)
	}
	for _, ch := range namedChildren(n) {
		if ch.Type() == "block" {
			return c.block(ch)
		}
	}
	return nil
}

func (c *converter) ifStatement(n *sitter.Node) *ast.If {
	root := &ast.If{
		Line: line(n),
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.block(n.ChildByFieldName("consequence")),
	}
	cur := root
	for _, alt := range namedChildren(n) {
		switch alt.Type() {
		case "elif_clause":
			next := &ast.If{
				Line: line(alt),
				Test: c.expr(alt.ChildByFieldName("condition")),
				Body: c.block(alt.ChildByFieldName("consequence")),
			}
			cur.Orelse = []ast.Stmt{next}
			cur = next
		case "else_clause":
			cur.Orelse = c.elseBlock(alt)
		}
	}
	return root
}

func (c *converter) tryStatement(n *sitter.Node) *ast.Try {
	t := &ast.Try{Line: line(n), Body: c.block(n.ChildByFieldName("body"))}
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "except_clause", "except_group_clause":
			t.Star = t.Star || ch.Type() == "except_group_clause"
			t.Handlers = append(t.Handlers, c.exceptHandler(ch))
		case "else_clause":
			t.Orelse = c.elseBlock(ch)
		case "finally_clause":
			t.Finalbody = c.elseBlock(ch)
		}
	}
	return t
}

func (c *converter) exceptHandler(n *sitter.Node) *ast.ExceptHandler {
	h := &ast.ExceptHandler{Line: line(n)}
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "block":
			h.Body = c.block(ch)
		case "as_pattern":
			if kids := namedChildren(ch); len(kids) > 0 {
				h.Type = c.expr(kids[0])
			}
			if alias := ch.ChildByFieldName("alias"); alias != nil {
				h.Name = strings.TrimSpace(c.text(alias))
			}
		default:
			if h.Type == nil {
				h.Type = c.expr(ch)
			} else if h.Name == "" {
				h.Name = c.text(ch)
			}
		}
	}
	return h
}

func (c *converter) withStatement(n *sitter.Node) *ast.With {
	w := &ast.With{
		Line:  line(n),
		Async: hasToken(n, "async"),
		Body:  c.block(n.ChildByFieldName("body")),
	}
	parser.WalkTyped(n, c.src, func(node *sitter.Node, nodeType string, _ []byte) bool {
		switch nodeType {
		case "block":
			return false
		case "with_item":
			w.Items = append(w.Items, c.withItem(node))
			return false
		}
		return true
	})
	return w
}

func (c *converter) withItem(n *sitter.Node) ast.WithItem {
	value := n.ChildByFieldName("value")
	if value == nil {
		if kids := namedChildren(n); len(kids) > 0 {
			value = kids[0]
		}
	}
	if value == nil {
		return ast.WithItem{}
	}
	if value.Type() == "as_pattern" {
		item := ast.WithItem{}
		if kids := namedChildren(value); len(kids) > 0 {
			item.Context = c.expr(kids[0])
		}
		item.Vars = c.asTarget(value.ChildByFieldName("alias"))
		return item
	}
	item := ast.WithItem{Context: c.expr(value)}
	if alias := n.ChildByFieldName("alias"); alias != nil {
		item.Vars = c.target(alias, ast.Store)
	}
	return item
}

func (c *converter) asTarget(n *sitter.Node) ast.Expr {
	if n == nil {
		return nil
	}
	if n.Type() != "as_pattern_target" {
		return c.target(n, ast.Store)
	}
	if kids := namedChildren(n); len(kids) == 1 {
		return c.target(kids[0], ast.Store)
	}
	return &ast.Name{Line: line(n), ID: strings.TrimSpace(c.text(n)), Ctx: ast.Store}
}

func (c *converter) functionDef(n *sitter.Node) *ast.FunctionDef {
	return &ast.FunctionDef{
		Line:    line(n),
		Name:    c.text(n.ChildByFieldName("name")),
		Async:   hasToken(n, "async"),
		Params:  c.params(n.ChildByFieldName("parameters")),
		Returns: c.expr(n.ChildByFieldName("return_type")),
		Body:    c.block(n.ChildByFieldName("body")),
	}
}

func (c *converter) classDef(n *sitter.Node) *ast.ClassDef {
	cls := &ast.ClassDef{
		Line: line(n),
		Name: c.text(n.ChildByFieldName("name")),
		Body: c.block(n.ChildByFieldName("body")),
	}
	cls.Bases, cls.Keywords = c.arguments(n.ChildByFieldName("superclasses"))
	return cls
}

func (c *converter) decorated(n *sitter.Node) ast.Stmt {
	var decorators []ast.Expr
	for _, ch := range namedChildren(n) {
		if ch.Type() != "decorator" {
			continue
		}
		if kids := namedChildren(ch); len(kids) > 0 {
			decorators = append(decorators, c.expr(kids[0]))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return c.other(n)
	}
	switch s := c.stmt(def).(type) {
	case *ast.FunctionDef:
		s.Decorators = decorators
		return s
	case *ast.ClassDef:
		s.Decorators = decorators
		return s
	default:
		return s
	}
}

func (c *converter) params(n *sitter.Node) []ast.Param {
	var out []ast.Param
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "identifier":
			out = append(out, ast.Param{Name: c.text(ch)})
		case "default_parameter":
			out = append(out, ast.Param{
				Name:    c.text(ch.ChildByFieldName("name")),
				Default: c.expr(ch.ChildByFieldName("value")),
			})
		case "typed_parameter":
			p := ast.Param{Annotation: c.expr(ch.ChildByFieldName("type"))}
			if kids := namedChildren(ch); len(kids) > 0 {
				p.Name = strings.TrimLeft(c.text(kids[0]), "*")
			}
			out = append(out, p)
		case "typed_default_parameter":
			out = append(out, ast.Param{
				Name:       c.text(ch.ChildByFieldName("name")),
				Annotation: c.expr(ch.ChildByFieldName("type")),
				Default:    c.expr(ch.ChildByFieldName("value")),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, ast.Param{Name: strings.TrimLeft(c.text(ch), "*")})
		}
	}
	return out
}

// other keeps the expressions and blocks of a statement that has no
// dedicated node kind.
func (c *converter) other(n *sitter.Node) *ast.OtherStmt {
	s := &ast.OtherStmt{Line: line(n), Type: n.Type()}
	c.collect(s, n)
	return s
}

func (c *converter) collect(s *ast.OtherStmt, n *sitter.Node) {
	for _, ch := range namedChildren(n) {
		switch {
		case ch.Type() == "block":
			s.Bodies = append(s.Bodies, c.block(ch))
		case ch.Type() == "case_pattern":
			s.Exprs = c.patternLoads(ch, s.Exprs)
		case ch.Type() == "if_clause" || ch.Type() == "case_clause":
			c.collect(s, ch)
		case isStatement(ch.Type()):
			s.Bodies = append(s.Bodies, []ast.Stmt{c.stmt(ch)})
		default:
			s.Exprs = append(s.Exprs, c.expr(ch))
		}
	}
}

// patternLoads returns the names a match pattern reads: class names and
// dotted value patterns. Capture names are bindings and are skipped.
func (c *converter) patternLoads(n *sitter.Node, out []ast.Expr) []ast.Expr {
	switch n.Type() {
	case "dotted_name":
		if ids := namedChildren(n); len(ids) > 1 {
			out = append(out, &ast.Name{Line: line(n), ID: c.text(ids[0])})
		}
		return out
	case "class_pattern":
		for i, k := range namedChildren(n) {
			if i == 0 && k.Type() == "dotted_name" {
				if ids := namedChildren(k); len(ids) > 0 {
					out = append(out, &ast.Name{Line: line(k), ID: c.text(ids[0])})
				}
				continue
			}
			out = c.patternLoads(k, out)
		}
		return out
	}
	for _, k := range namedChildren(n) {
		out = c.patternLoads(k, out)
	}
	return out
}
