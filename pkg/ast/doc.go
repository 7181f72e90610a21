// Package ast defines the syntax tree the review analyzers work on.
//
// The tree is a closed sum type: every node kind is a struct in this package
// implementing the sealed Node interface, statements additionally implement
// Stmt and expressions implement Expr. Traversal is driven by Children, a
// single type switch over all kinds, so adding a kind means adding exactly
// one case there.
//
// Trees are produced by a Provider. The tree-sitter implementation lives in
// the treesitter subpackage:
//
//	provider := treesitter.New()
//	defer provider.Close()
//
//	mod, err := provider.Parse(source, "main.py")
//	if err != nil {
//	    return err
//	}
//
//	ast.Inspect(mod, func(n ast.Node) bool {
//	    if fn, ok := n.(*ast.FunctionDef); ok {
//	        fmt.Printf("%s at line %d\n", fn.Name, fn.Line)
//	    }
//	    return true
//	})
package ast
