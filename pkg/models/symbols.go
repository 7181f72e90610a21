package models

// SymbolRecord maps a bound name to the line of its most recent binding.
type SymbolRecord map[string]int

// Bind records a binding of name at line, replacing any earlier one.
func (r SymbolRecord) Bind(name string, line int) {
	r[name] = line
}

// ImportRecord is a name bound by an import statement.
type ImportRecord struct {
	Name string
	Line int // first import line
	Used bool
}
