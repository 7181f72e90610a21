// Package scanner finds Python source files to review.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/scry/pkg/config"
	"github.com/panbanda/scry/pkg/parser"
)

// Scanner finds Python source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns builds the matcher for root from the configured
// directories and patterns plus, when enabled, every .gitignore of the
// enclosing repository. Config patterns use gitignore syntax.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	var patterns []gitignore.Pattern

	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(strings.TrimSuffix(dir, "/")+"/", nil))
	}
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, rebase(gitPatterns, gitRoot, root)...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// rebase keeps .gitignore patterns usable when root is below the git root
// by matching on paths relative to the git root.
func rebase(patterns []gitignore.Pattern, gitRoot, root string) []gitignore.Pattern {
	rel, err := filepath.Rel(gitRoot, root)
	if err != nil || rel == "." {
		return patterns
	}
	prefix := strings.Split(filepath.ToSlash(rel), "/")
	out := make([]gitignore.Pattern, len(patterns))
	for i, p := range patterns {
		out[i] = prefixed{Pattern: p, prefix: prefix}
	}
	return out
}

type prefixed struct {
	gitignore.Pattern
	prefix []string
}

func (p prefixed) Match(path []string, isDir bool) gitignore.MatchResult {
	full := make([]string, 0, len(p.prefix)+len(path))
	full = append(full, p.prefix...)
	full = append(full, path...)
	return p.Pattern.Match(full, isDir)
}

// isExcluded checks if a path relative to the scan root matches any
// exclusion pattern.
func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 || relPath == "." {
		return false
	}

	pathParts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for Python files.
// Symlinks that resolve outside root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if parser.DetectLanguage(path) != parser.LangUnknown {
			files = append(files, path)
		}

		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanPaths expands a mix of files and directories into the Python files
// to review. Files named explicitly are kept even when an exclude pattern
// matches them; they must still be Python source. Duplicates are dropped
// and the first occurrence order kept.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		key := filepath.Clean(path)
		if !seen[key] {
			seen[key] = true
			out = append(out, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if parser.DetectLanguage(path) == parser.LangUnknown {
				return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
			}
			add(path)
			continue
		}
		files, err := s.ScanDir(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}
