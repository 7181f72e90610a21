package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// legacyStatements are Python 2 statement forms the grammar still accepts
// but a Python 3 interpreter rejects.
var legacyStatements = map[string]string{
	"print_statement": "Missing parentheses in call to 'print'",
	"exec_statement":  "Missing parentheses in call to 'exec'",
}

// SyntaxError describes the first location where the source failed to parse.
type SyntaxError struct {
	Line   int
	Column int
	Reason string
	Text   string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s (line %d, column %d)", e.Reason, e.Line, e.Column)
	}
	return fmt.Sprintf("%s (line %d, column %d): %q", e.Reason, e.Line, e.Column, e.Text)
}

// SyntaxError returns the first syntax error in the tree, or nil when the
// source parsed cleanly.
func (r *ParseResult) SyntaxError() *SyntaxError {
	root := r.Root()
	if root == nil {
		return &SyntaxError{Line: 1, Column: 1, Reason: "empty parse tree"}
	}

	var found *SyntaxError
	WalkTyped(root, r.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if found != nil {
			return false
		}
		if reason, ok := legacyStatements[nodeType]; ok {
			found = newSyntaxError(n, src, reason)
			return false
		}
		switch {
		case nodeType == "ERROR":
			found = newSyntaxError(n, src, "invalid syntax")
			return false
		case n.IsMissing():
			found = newSyntaxError(n, src, fmt.Sprintf("expected %q", nodeType))
			found.Text = ""
			return false
		}
		return true
	})

	if found == nil && root.HasError() {
		found = newSyntaxError(root, r.Source, "invalid syntax")
	}
	return found
}

func newSyntaxError(n *sitter.Node, src []byte, reason string) *SyntaxError {
	text := GetNodeText(n, src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 40 {
		text = text[:40]
	}
	return &SyntaxError{
		Line:   int(n.StartPoint().Row) + 1,
		Column: int(n.StartPoint().Column) + 1,
		Reason: reason,
		Text:   strings.TrimSpace(text),
	}
}
