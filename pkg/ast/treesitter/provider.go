package treesitter

import (
	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/parser"
)

// Provider implements ast.Provider using tree-sitter. A Provider wraps one
// tree-sitter parser and must not be shared between goroutines.
type Provider struct {
	parser *parser.Parser
}

var _ ast.Provider = (*Provider)(nil)

// New creates a new tree-sitter based provider.
func New() *Provider {
	return &Provider{
		parser: parser.New(),
	}
}

// Parse parses Python source and converts it to an ast.Module. Invalid
// source yields a *parser.SyntaxError.
func (p *Provider) Parse(source []byte, path string) (*ast.Module, error) {
	result, err := p.parser.Parse(source, path)
	if err != nil {
		return nil, err
	}
	return convertChecked(result)
}

// ParseFile reads and parses a Python file.
func (p *Provider) ParseFile(path string) (*ast.Module, error) {
	result, err := p.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return convertChecked(result)
}

// Close releases parser resources.
func (p *Provider) Close() {
	p.parser.Close()
}

func convertChecked(result *parser.ParseResult) (*ast.Module, error) {
	if serr := result.SyntaxError(); serr != nil {
		return nil, serr
	}
	return Convert(result)
}
