package ast

import "fmt"

// Children returns the direct children of n in source order. Nil fields are
// skipped. It panics on a node type this package does not define.
func Children(n Node) []Node {
	var out []Node
	switch n := n.(type) {
	case *Module:
		out = appendStmts(out, n.Body)
	case *FunctionDef:
		out = appendExprs(out, n.Decorators)
		out = appendParams(out, n.Params)
		out = appendExpr(out, n.Returns)
		out = appendStmts(out, n.Body)
	case *ClassDef:
		out = appendExprs(out, n.Decorators)
		out = appendExprs(out, n.Bases)
		out = appendKeywords(out, n.Keywords)
		out = appendStmts(out, n.Body)
	case *Return:
		out = appendExpr(out, n.Value)
	case *Raise:
		out = appendExpr(out, n.Exc)
		out = appendExpr(out, n.Cause)
	case *Break, *Continue, *Pass, *Import, *ImportFrom, *Global, *Name, *Constant:
		// leaves
	case *If:
		out = appendExpr(out, n.Test)
		out = appendStmts(out, n.Body)
		out = appendStmts(out, n.Orelse)
	case *For:
		out = appendExpr(out, n.Target)
		out = appendExpr(out, n.Iter)
		out = appendStmts(out, n.Body)
		out = appendStmts(out, n.Orelse)
	case *While:
		out = appendExpr(out, n.Test)
		out = appendStmts(out, n.Body)
		out = appendStmts(out, n.Orelse)
	case *Try:
		out = appendStmts(out, n.Body)
		for _, h := range n.Handlers {
			if h != nil {
				out = append(out, h)
			}
		}
		out = appendStmts(out, n.Orelse)
		out = appendStmts(out, n.Finalbody)
	case *ExceptHandler:
		out = appendExpr(out, n.Type)
		out = appendStmts(out, n.Body)
	case *With:
		for _, item := range n.Items {
			out = appendExpr(out, item.Context)
			out = appendExpr(out, item.Vars)
		}
		out = appendStmts(out, n.Body)
	case *Assert:
		out = appendExpr(out, n.Test)
		out = appendExpr(out, n.Msg)
	case *Assign:
		out = appendExprs(out, n.Targets)
		out = appendExpr(out, n.Value)
	case *AugAssign:
		out = appendExpr(out, n.Target)
		out = appendExpr(out, n.Value)
	case *AnnAssign:
		out = appendExpr(out, n.Target)
		out = appendExpr(out, n.Annotation)
		out = appendExpr(out, n.Value)
	case *ExprStmt:
		out = appendExpr(out, n.Value)
	case *Delete:
		out = appendExprs(out, n.Targets)
	case *OtherStmt:
		out = appendExprs(out, n.Exprs)
		for _, body := range n.Bodies {
			out = appendStmts(out, body)
		}
	case *Attribute:
		out = appendExpr(out, n.Value)
	case *Call:
		out = appendExpr(out, n.Func)
		out = appendExprs(out, n.Args)
		out = appendKeywords(out, n.Keywords)
	case *BoolOp:
		out = appendExprs(out, n.Values)
	case *Subscript:
		out = appendExpr(out, n.Value)
		out = appendExpr(out, n.Slice)
	case *Starred:
		out = appendExpr(out, n.Value)
	case *Lambda:
		out = appendParams(out, n.Params)
		out = appendExpr(out, n.Body)
	case *IfExp:
		out = appendExpr(out, n.Test)
		out = appendExpr(out, n.Body)
		out = appendExpr(out, n.Orelse)
	case *NamedExpr:
		if n.Target != nil {
			out = append(out, n.Target)
		}
		out = appendExpr(out, n.Value)
	case *Comprehension:
		out = appendExprs(out, n.Elts)
		for _, g := range n.Generators {
			out = appendExpr(out, g.Target)
			out = appendExpr(out, g.Iter)
			out = appendExprs(out, g.Ifs)
		}
	case *Collection:
		out = appendExprs(out, n.Elts)
	case *OtherExpr:
		out = appendExprs(out, n.Operands)
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
	return out
}

func appendExpr(dst []Node, e Expr) []Node {
	if e == nil {
		return dst
	}
	return append(dst, e)
}

func appendExprs(dst []Node, es []Expr) []Node {
	for _, e := range es {
		dst = appendExpr(dst, e)
	}
	return dst
}

func appendStmts(dst []Node, ss []Stmt) []Node {
	for _, s := range ss {
		if s != nil {
			dst = append(dst, s)
		}
	}
	return dst
}

func appendParams(dst []Node, ps []Param) []Node {
	for _, p := range ps {
		dst = appendExpr(dst, p.Annotation)
		dst = appendExpr(dst, p.Default)
	}
	return dst
}

func appendKeywords(dst []Node, kws []Keyword) []Node {
	for _, kw := range kws {
		dst = appendExpr(dst, kw.Value)
	}
	return dst
}

// Inspect traverses the tree rooted at n in pre-order, calling f for each
// node. When f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Visitor is called by Walk for each node. If the returned visitor w is not
// nil, Walk visits each child of the node with w, followed by a call of
// w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree rooted at n in pre-order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
	v.Visit(nil)
}

// Functions returns every function definition in the tree rooted at n,
// nested ones included, in pre-order.
func Functions(n Node) []*FunctionDef {
	var fns []*FunctionDef
	Inspect(n, func(n Node) bool {
		if fn, ok := n.(*FunctionDef); ok {
			fns = append(fns, fn)
		}
		return true
	})
	return fns
}

// IsLoop reports whether s is a for or while statement.
func IsLoop(s Node) bool {
	switch s.(type) {
	case *For, *While:
		return true
	}
	return false
}
