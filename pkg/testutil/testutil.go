package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/ast/treesitter"
)

// MemFS creates an in-memory filesystem for testing.
func MemFS() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile writes content to a file in the given filesystem.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file in the given filesystem.
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists in the filesystem.
func FileExists(fs afero.Fs, path string) bool {
	exists, _ := afero.Exists(fs, path)
	return exists
}

// ParseModule parses Python source into a module, failing the test on any
// parse or syntax error.
func ParseModule(t *testing.T, source string) *ast.Module {
	t.Helper()
	p := treesitter.New()
	defer p.Close()

	mod, err := p.Parse([]byte(source), "test.py")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return mod
}
