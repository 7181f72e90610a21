package ast

// Provider turns Python source into a Module.
//
// Parse returns a *SyntaxError-compatible error (see parser.SyntaxError) when
// the source is not valid Python; any other error means the provider itself
// failed.
type Provider interface {
	Parse(source []byte, path string) (*Module, error)

	// Close releases provider resources.
	Close()
}
