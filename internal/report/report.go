// Package report writes Markdown review reports: one appended section per
// reviewed file, and optionally one file per issue.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/spf13/afero"

	"github.com/panbanda/scry/pkg/models"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// FileName is the report every file section is appended to.
const FileName = "code_review_report.md"

// IssuesDir is the subdirectory holding one file per issue.
const IssuesDir = "issues"

const noFix = "No fix available."

// Entry is one reported issue with its suggested fix.
type Entry struct {
	Issue models.Issue `json:"issue"`
	Fix   string       `json:"fix"`
}

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"normalize": NormalizeDescription,
	"fix":       FormatFix,
}).ParseFS(templateFS, "templates/*.md.tmpl"))

// NormalizeDescription trims a description and strips one trailing [tag].
func NormalizeDescription(desc string) string {
	return models.NormalizeMessage(desc)
}

// FormatFix wraps a fix in a python code fence unless it is already
// fenced. An empty fix becomes a placeholder.
func FormatFix(fix string) string {
	fix = strings.TrimSpace(fix)
	if fix == "" {
		fix = noFix
	}
	if strings.HasPrefix(fix, "```") {
		return fix
	}
	return "```python\n" + fix + "\n```"
}

// Write renders the report section for one file.
func Write(w io.Writer, fileName string, entries []Entry) error {
	return templates.ExecuteTemplate(w, "file.md.tmpl", struct {
		File    string
		Entries []Entry
	}{fileName, entries})
}

// WriteIssue renders the standalone report of one issue.
func WriteIssue(w io.Writer, fileName string, entry Entry) error {
	return templates.ExecuteTemplate(w, "issue.md.tmpl", struct {
		File  string
		Entry Entry
	}{fileName, entry})
}

// Writer saves reports below a directory. It is safe for concurrent use;
// each file section is appended with a single write.
type Writer struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// Option configures a Writer.
type Option func(*Writer)

// WithFs sets the filesystem reports are written to.
func WithFs(fs afero.Fs) Option {
	return func(w *Writer) {
		w.fs = fs
	}
}

// NewWriter creates a report writer for dir on the OS filesystem.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{fs: afero.NewOsFs(), dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the report directory.
func (w *Writer) Dir() string { return w.dir }

// Path returns the path of the combined report.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, FileName)
}

// Save appends the section for fileName to the combined report.
func (w *Writer) Save(fileName string, entries []Entry) error {
	var buf bytes.Buffer
	if err := Write(&buf, fileName, entries); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	f, err := w.fs.OpenFile(w.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// SaveIndividual writes <dir>/issues/<base>_issue_<n>.md for every entry
// and returns the paths written.
func (w *Writer) SaveIndividual(fileName string, entries []Entry) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Join(w.dir, IssuesDir)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create issues dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	paths := make([]string, 0, len(entries))
	for i, entry := range entries {
		path := filepath.Join(dir, fmt.Sprintf("%s_issue_%d.md", base, i+1))

		var b strings.Builder
		if err := WriteIssue(&b, fileName, entry); err != nil {
			return paths, fmt.Errorf("render %s: %w", path, err)
		}
		if err := afero.WriteFile(w.fs, path, []byte(b.String()), 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
