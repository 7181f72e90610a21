package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/scry/pkg/models"
	"github.com/panbanda/scry/pkg/testutil"
)

func entries() []Entry {
	return []Entry{
		{
			Issue: models.NewIssue(1, models.CategoryUnusedImport, "Unused import detected: 'os'. Consider removing it. [style]"),
			Fix:   "Remove it",
		},
		{
			Issue: models.NewIssue(4, models.CategoryNone, "Something odd"),
			Fix:   "```python\nx = 1\n```",
		},
	}
}

func TestFormatFix(t *testing.T) {
	assert.Equal(t, "```python\nRemove it\n```", FormatFix("  Remove it\n"))
	assert.Equal(t, "```python\nx = 1\n```", FormatFix("```python\nx = 1\n```"))
	assert.Equal(t, "```python\nNo fix available.\n```", FormatFix(""))
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "Unused import", NormalizeDescription("  Unused import [style] "))
	assert.Equal(t, "Plain", NormalizeDescription("Plain"))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "a.py", entries()))

	want := "\n---\n\n### Code Review for `a.py`\n\n" +
		"- **Line 1:** Unused import detected: 'os'. Consider removing it.\n" +
		"  _(Type: unused_import)_\n" +
		"\n  **Suggested Fix:**\n\n```python\nRemove it\n```\n\n" +
		"- **Line 4:** Something odd\n" +
		"\n  **Suggested Fix:**\n\n```python\nx = 1\n```\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteNoIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "clean.py", nil))
	assert.Equal(t, "\n---\n\n### Code Review for `clean.py`\n\nNo issues found.\n", buf.String())
}

func TestWriteIssue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIssue(&buf, "src/a.py", entries()[0]))

	want := "# Code Review Suggestion\n\n" +
		"- **Filename:** `src/a.py`\n" +
		"- **Line:** 1\n" +
		"- **Issue:** Unused import detected: 'os'. Consider removing it.\n" +
		"- **Type:** `unused_import`\n" +
		"\n## Suggested Fix\n\n```python\nRemove it\n```\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterSaveAppends(t *testing.T) {
	fs := testutil.MemFS()
	w := NewWriter("reports", WithFs(fs))

	require.NoError(t, w.Save("a.py", entries()))
	require.NoError(t, w.Save("b.py", nil))

	content := testutil.ReadFile(t, fs, filepath.Join("reports", FileName))
	assert.Contains(t, content, "### Code Review for `a.py`")
	assert.Contains(t, content, "### Code Review for `b.py`\n\nNo issues found.\n")
	assert.Less(t, bytes.Index([]byte(content), []byte("a.py")), bytes.Index([]byte(content), []byte("b.py")))
	assert.Equal(t, filepath.Join("reports", FileName), w.Path())
}

func TestWriterSaveIndividual(t *testing.T) {
	fs := testutil.MemFS()
	w := NewWriter("reports", WithFs(fs))

	paths, err := w.SaveIndividual("pkg/module.py", entries())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("reports", "issues", "module_issue_1.md"),
		filepath.Join("reports", "issues", "module_issue_2.md"),
	}, paths)

	for _, p := range paths {
		assert.True(t, testutil.FileExists(fs, p), p)
	}

	second := testutil.ReadFile(t, fs, paths[1])
	assert.Contains(t, second, "- **Line:** 4")
	assert.NotContains(t, second, "**Type:**")
}

func TestWriterSaveKeepsExistingReport(t *testing.T) {
	fs := testutil.MemFS()
	path := filepath.Join("reports", FileName)
	testutil.WriteFile(t, fs, path, "# earlier run\n")

	w := NewWriter("reports", WithFs(fs))
	require.NoError(t, w.Save("module.py", entries()))

	content := testutil.ReadFile(t, fs, path)
	assert.True(t, strings.HasPrefix(content, "# earlier run\n"))
	assert.Contains(t, content, "module.py")
}

func TestWriterSaveConcurrent(t *testing.T) {
	const files, perFile = 20, 50
	w := NewWriter(t.TempDir())

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("file_%d.py", i)
			es := make([]Entry, perFile)
			for j := range es {
				es[j] = Entry{Issue: models.NewIssue(j+1, models.CategoryNone, "issue in "+name)}
			}
			assert.NoError(t, w.Save(name, es))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)

	sections := strings.Split(string(data), "### Code Review for `")[1:]
	require.Len(t, sections, files)
	for _, section := range sections {
		name, body, ok := strings.Cut(section, "`")
		require.True(t, ok)
		assert.Equal(t, perFile, strings.Count(body, "- **Line "), name)
		assert.Equal(t, perFile, strings.Count(body, "issue in "+name), name)
	}
}
