package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds:
//
//	def f(a=g()):
//	    for i in items:
//	        if a and b:
//	            return i
//	    x = 1
func sample() *Module {
	return &Module{Body: []Stmt{
		&FunctionDef{
			Line:   1,
			Name:   "f",
			Params: []Param{{Name: "a", Default: &Call{Line: 1, Func: &Name{Line: 1, ID: "g"}}}},
			Body: []Stmt{
				&For{
					Line:   2,
					Target: &Name{Line: 2, ID: "i", Ctx: Store},
					Iter:   &Name{Line: 2, ID: "items"},
					Body: []Stmt{
						&If{
							Line: 3,
							Test: &BoolOp{Line: 3, Op: And, Values: []Expr{
								&Name{Line: 3, ID: "a"},
								&Name{Line: 3, ID: "b"},
							}},
							Body: []Stmt{&Return{Line: 4, Value: &Name{Line: 4, ID: "i"}}},
						},
					},
				},
				&Assign{Line: 5, Targets: []Expr{&Name{Line: 5, ID: "x", Ctx: Store}}, Value: &Constant{Line: 5, Text: "1"}},
			},
		},
	}}
}

func kinds(n Node) []Kind {
	var out []Kind
	Inspect(n, func(n Node) bool {
		out = append(out, n.Kind())
		return true
	})
	return out
}

func TestInspectPreOrder(t *testing.T) {
	got := kinds(sample())
	want := []Kind{
		KindModule, KindFunctionDef,
		KindCall, KindName,
		KindFor, KindName, KindName,
		KindIf, KindBoolOp, KindName, KindName,
		KindReturn, KindName,
		KindAssign, KindName, KindConstant,
	}
	assert.Equal(t, want, got)
}

func TestInspectPrune(t *testing.T) {
	var visited []Kind
	Inspect(sample(), func(n Node) bool {
		visited = append(visited, n.Kind())
		return n.Kind() != KindFor
	})
	assert.NotContains(t, visited, KindIf)
	assert.Contains(t, visited, KindAssign)
}

func TestInspectNil(t *testing.T) {
	Inspect(nil, func(Node) bool {
		t.Fatal("visitor called for nil node")
		return true
	})
}

type countingVisitor struct {
	enter, leave int
}

func (v *countingVisitor) Visit(n Node) Visitor {
	if n == nil {
		v.leave++
		return nil
	}
	v.enter++
	return v
}

func TestWalk(t *testing.T) {
	v := &countingVisitor{}
	Walk(v, sample())
	assert.Equal(t, len(kinds(sample())), v.enter)
	assert.Equal(t, v.enter, v.leave)
}

func TestFunctions(t *testing.T) {
	inner := &FunctionDef{Line: 3, Name: "inner", Body: []Stmt{&Pass{Line: 3}}}
	mod := &Module{Body: []Stmt{
		&FunctionDef{Line: 1, Name: "outer", Body: []Stmt{inner}},
		&ClassDef{Line: 5, Name: "C", Body: []Stmt{
			&FunctionDef{Line: 6, Name: "method", Async: true, Body: []Stmt{&Pass{Line: 7}}},
		}},
	}}

	fns := Functions(mod)
	require.Len(t, fns, 3)
	assert.Equal(t, "outer", fns[0].Name)
	assert.Equal(t, "inner", fns[1].Name)
	assert.Equal(t, "method", fns[2].Name)
}

func TestChildrenSkipsNilFields(t *testing.T) {
	assert.Empty(t, Children(&Return{Line: 1}))
	assert.Empty(t, Children(&Raise{Line: 1}))
	assert.Len(t, Children(&NamedExpr{Line: 1, Value: &Constant{Line: 1}}), 1)
	assert.Len(t, Children(&With{Line: 1, Items: []WithItem{{Context: &Name{ID: "f"}}}}), 1)
}

func TestChildrenCoversEveryKind(t *testing.T) {
	nodes := []Node{
		&Module{}, &FunctionDef{}, &ClassDef{}, &Return{}, &Raise{}, &Break{}, &Continue{},
		&Pass{}, &If{}, &For{}, &While{}, &Try{}, &ExceptHandler{}, &With{}, &Assert{},
		&Import{}, &ImportFrom{}, &Assign{}, &AugAssign{}, &AnnAssign{}, &ExprStmt{},
		&Delete{}, &Global{}, &OtherStmt{}, &Name{}, &Attribute{}, &Call{}, &BoolOp{},
		&Subscript{}, &Starred{}, &Constant{}, &Lambda{}, &IfExp{}, &NamedExpr{},
		&Comprehension{}, &Collection{}, &OtherExpr{},
	}
	require.Len(t, nodes, len(kindNames))

	seen := make(map[Kind]bool)
	for _, n := range nodes {
		assert.NotPanics(t, func() { Children(n) }, "%T", n)
		assert.NotEqual(t, "Unknown", n.Kind().String())
		seen[n.Kind()] = true
	}
	assert.Len(t, seen, len(kindNames))
}

type foreign struct{ Pass }

func TestChildrenPanicsOnForeignNode(t *testing.T) {
	assert.Panics(t, func() { Children(&foreign{}) })
}

func TestIsLoop(t *testing.T) {
	assert.True(t, IsLoop(&For{}))
	assert.True(t, IsLoop(&While{}))
	assert.False(t, IsLoop(&If{}))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "FunctionDef", KindFunctionDef.String())
	assert.Equal(t, "Unknown", Kind(-1).String())
	assert.Equal(t, "Store", Store.String())
	assert.Equal(t, "Load", Load.String())
	assert.Equal(t, "or", Or.String())
}
