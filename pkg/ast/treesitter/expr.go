package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/scry/pkg/ast"
)

var comprehensionTypes = map[string]string{
	"list_comprehension":       "list",
	"set_comprehension":        "set",
	"dictionary_comprehension": "dict",
	"generator_expression":     "generator",
}

var collectionTypes = map[string]string{
	"list":            "list",
	"set":             "set",
	"tuple":           "tuple",
	"expression_list": "tuple",
}

func (c *converter) expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return nil
	}
	ln := line(n)
	switch n.Type() {
	case "identifier":
		return &ast.Name{Line: ln, ID: c.text(n)}
	case "attribute":
		return &ast.Attribute{
			Line:  ln,
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
		}
	case "call":
		return c.call(n)
	case "subscript":
		return c.subscript(n, ast.Load)
	case "boolean_operator":
		return c.boolOp(n)
	case "list_splat":
		return &ast.Starred{Line: ln, Value: c.first(n)}
	case "parenthesized_expression", "type":
		if kids := namedChildren(n); len(kids) == 1 {
			return c.expr(kids[0])
		}
	case "integer", "float", "true", "false", "none", "ellipsis":
		return &ast.Constant{Line: ln, Text: c.text(n)}
	case "string", "concatenated_string":
		return c.str(n)
	case "conditional_expression":
		if kids := namedChildren(n); len(kids) == 3 {
			return &ast.IfExp{
				Line:   ln,
				Body:   c.expr(kids[0]),
				Test:   c.expr(kids[1]),
				Orelse: c.expr(kids[2]),
			}
		}
	case "named_expression":
		name := n.ChildByFieldName("name")
		return &ast.NamedExpr{
			Line:   ln,
			Target: &ast.Name{Line: line(name), ID: c.text(name), Ctx: ast.Store},
			Value:  c.expr(n.ChildByFieldName("value")),
		}
	case "lambda":
		return &ast.Lambda{
			Line:   ln,
			Params: c.params(n.ChildByFieldName("parameters")),
			Body:   c.expr(n.ChildByFieldName("body")),
		}
	case "dictionary":
		d := &ast.Collection{Line: ln, Type: "dict"}
		for _, ch := range namedChildren(n) {
			if ch.Type() == "pair" {
				d.Elts = append(d.Elts, c.expr(ch.ChildByFieldName("key")), c.expr(ch.ChildByFieldName("value")))
				continue
			}
			d.Elts = append(d.Elts, c.expr(ch))
		}
		return d
	case "keyword_argument":
		return &ast.OtherExpr{Line: ln, Type: n.Type(), Operands: []ast.Expr{c.expr(n.ChildByFieldName("value"))}}
	}

	if typ, ok := comprehensionTypes[n.Type()]; ok {
		return c.comprehension(n, typ)
	}
	if typ, ok := collectionTypes[n.Type()]; ok {
		return &ast.Collection{Line: ln, Type: typ, Elts: c.exprs(namedChildren(n))}
	}
	return &ast.OtherExpr{Line: ln, Type: n.Type(), Operands: c.exprs(namedChildren(n))}
}

func (c *converter) exprs(nodes []*sitter.Node) []ast.Expr {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		if e := c.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// exprList converts a comma separated expression sequence: nothing, a
// single expression, or an implicit tuple.
func (c *converter) exprList(nodes []*sitter.Node) ast.Expr {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return c.expr(nodes[0])
	}
	return &ast.Collection{Line: line(nodes[0]), Type: "tuple", Elts: c.exprs(nodes)}
}

func (c *converter) first(n *sitter.Node) ast.Expr {
	if kids := namedChildren(n); len(kids) > 0 {
		return c.expr(kids[0])
	}
	return nil
}

// target converts an assignment target, giving bound names ctx.
func (c *converter) target(n *sitter.Node, ctx ast.Context) ast.Expr {
	if n == nil {
		return nil
	}
	ln := line(n)
	switch n.Type() {
	case "identifier":
		return &ast.Name{Line: ln, ID: c.text(n), Ctx: ctx}
	case "pattern_list", "tuple_pattern", "expression_list", "tuple":
		return &ast.Collection{Line: ln, Type: "tuple", Elts: c.targets(n, ctx), Ctx: ctx}
	case "list_pattern", "list":
		return &ast.Collection{Line: ln, Type: "list", Elts: c.targets(n, ctx), Ctx: ctx}
	case "list_splat_pattern", "list_splat":
		var inner ast.Expr
		if kids := namedChildren(n); len(kids) > 0 {
			inner = c.target(kids[0], ctx)
		}
		return &ast.Starred{Line: ln, Value: inner, Ctx: ctx}
	case "parenthesized_expression":
		if kids := namedChildren(n); len(kids) == 1 {
			return c.target(kids[0], ctx)
		}
	case "attribute":
		return &ast.Attribute{
			Line:  ln,
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
			Ctx:   ctx,
		}
	case "subscript":
		return c.subscript(n, ctx)
	}
	return c.expr(n)
}

func (c *converter) targets(n *sitter.Node, ctx ast.Context) []ast.Expr {
	var out []ast.Expr
	for _, ch := range namedChildren(n) {
		if t := c.target(ch, ctx); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (c *converter) call(n *sitter.Node) *ast.Call {
	call := &ast.Call{Line: line(n), Func: c.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() == "generator_expression" {
		call.Args = []ast.Expr{c.expr(args)}
		return call
	}
	call.Args, call.Keywords = c.arguments(args)
	return call
}

// arguments splits an argument list into positional and keyword arguments.
func (c *converter) arguments(n *sitter.Node) ([]ast.Expr, []ast.Keyword) {
	var (
		args []ast.Expr
		kws  []ast.Keyword
	)
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "keyword_argument":
			kws = append(kws, ast.Keyword{
				Name:  c.text(ch.ChildByFieldName("name")),
				Value: c.expr(ch.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			kws = append(kws, ast.Keyword{Value: c.first(ch)})
		default:
			if e := c.expr(ch); e != nil {
				args = append(args, e)
			}
		}
	}
	return args, kws
}

func (c *converter) subscript(n *sitter.Node, ctx ast.Context) *ast.Subscript {
	value := n.ChildByFieldName("value")
	var slices []*sitter.Node
	for _, ch := range namedChildren(n) {
		if !sameNode(ch, value) {
			slices = append(slices, ch)
		}
	}
	return &ast.Subscript{
		Line:  line(n),
		Value: c.expr(value),
		Slice: c.exprList(slices),
		Ctx:   ctx,
	}
}

// boolOp flattens left-nested chains of the same operator.
func (c *converter) boolOp(n *sitter.Node) *ast.BoolOp {
	op := ast.And
	if c.text(n.ChildByFieldName("operator")) == "or" {
		op = ast.Or
	}
	b := &ast.BoolOp{Line: line(n), Op: op}
	left := n.ChildByFieldName("left")
	if left != nil && left.Type() == "boolean_operator" {
		if inner := c.boolOp(left); inner.Op == op {
			b.Values = append(b.Values, inner.Values...)
		} else {
			b.Values = append(b.Values, inner)
		}
	} else if e := c.expr(left); e != nil {
		b.Values = append(b.Values, e)
	}
	if e := c.expr(n.ChildByFieldName("right")); e != nil {
		b.Values = append(b.Values, e)
	}
	return b
}

// str converts a string literal. Formatted strings become an OtherExpr
// whose operands are the interpolated expressions.
func (c *converter) str(n *sitter.Node) ast.Expr {
	var operands []ast.Expr
	var visit func(*sitter.Node)
	visit = func(s *sitter.Node) {
		for _, ch := range namedChildren(s) {
			switch ch.Type() {
			default:
				visit(ch)
			case "interpolation":
				e := ch.ChildByFieldName("expression")
				if e == nil {
					if kids := namedChildren(ch); len(kids) > 0 {
						e = kids[0]
					}
				}
				if ex := c.expr(e); ex != nil {
					operands = append(operands, ex)
				}
			}
		}
	}
	visit(n)

	if len(operands) == 0 {
		return &ast.Constant{Line: line(n), Text: c.text(n)}
	}
	return &ast.OtherExpr{Line: line(n), Type: "fstring", Operands: operands}
}

func (c *converter) comprehension(n *sitter.Node, typ string) *ast.Comprehension {
	comp := &ast.Comprehension{Line: line(n), Type: typ}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "pair" {
			comp.Elts = []ast.Expr{c.expr(body.ChildByFieldName("key")), c.expr(body.ChildByFieldName("value"))}
		} else {
			comp.Elts = []ast.Expr{c.expr(body)}
		}
	}
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "for_in_clause":
			comp.Generators = append(comp.Generators, ast.Generator{
				Target: c.target(ch.ChildByFieldName("left"), ast.Store),
				Iter:   c.expr(ch.ChildByFieldName("right")),
				Async:  hasToken(ch, "async"),
			})
		case "if_clause":
			if len(comp.Generators) > 0 {
				g := &comp.Generators[len(comp.Generators)-1]
				g.Ifs = append(g.Ifs, c.first(ch))
			}
		}
	}
	return comp
}
