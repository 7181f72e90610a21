package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Unused import detected: 'os'.", "Unused import detected: 'os'."},
		{"Unused import detected: 'os'. [unused_import]", "Unused import detected: 'os'."},
		{"  padded [tag]  ", "padded"},
		{"keeps [inner] text", "keeps [inner] text"},
		{"only last [a] [b]", "only last [a]"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMessage(tt.in))
		})
	}
}

func TestIssueKey(t *testing.T) {
	a := NewIssue(3, CategoryNestedLoop, "Nested loop detected: consider optimizing.")
	b := NewIssue(3, CategoryNestedLoop, "a different wording")
	assert.Equal(t, a.Key(), b.Key(), "same line and category must collide")

	c := NewIssue(4, CategoryNestedLoop, a.Message)
	assert.NotEqual(t, a.Key(), c.Key())

	d := NewIssue(3, CategoryNone, "Something odd [x]")
	e := NewIssue(3, CategoryNone, "Something odd")
	assert.Equal(t, d.Key(), e.Key(), "uncategorized issues compare normalized messages")

	f := NewIssue(3, CategoryNone, a.Message)
	assert.NotEqual(t, a.Key(), f.Key(), "category and message keys never collide")
}

func TestIssueKeyAnalyzerFaults(t *testing.T) {
	a := NewIssue(0, CategoryAnalyzerError, "Analyzer symbols failed: boom")
	b := NewIssue(0, CategoryAnalyzerError, "Analyzer loops failed: boom")
	assert.NotEqual(t, a.Key(), b.Key(), "faults of different analyzers must not collide")
	assert.Equal(t, a.Key(), NewIssue(0, CategoryAnalyzerError, a.Message).Key())

	none := NewIssue(0, CategoryNone, a.Message)
	assert.NotEqual(t, a.Key(), none.Key())
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(NewIssue(0, CategoryNone, "Error parsing code: boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"line":0,"message":"Error parsing code: boom","category":null}`, string(data))

	data, err = json.Marshal(NewIssue(1, CategoryUnusedVariable, "x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"line":1,"message":"x","category":"unused_variable"}`, string(data))

	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(`{"line":2,"message":"m","category":null}`), &issue))
	assert.Equal(t, CategoryNone, issue.Category)
	require.NoError(t, json.Unmarshal([]byte(`{"line":2,"message":"m","category":"nested_loop"}`), &issue))
	assert.Equal(t, CategoryNestedLoop, issue.Category)
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsValid(), c)
		assert.Equal(t, string(c), c.String())
	}
	assert.True(t, CategoryNone.IsValid())
	assert.False(t, Category("style").IsValid())
}

func TestIssueDescription(t *testing.T) {
	issue := NewIssue(1, CategoryUnusedImport, "Unused import detected: 'os'. Consider removing it. [unused_import]")
	assert.Equal(t, "Unused import detected: 'os'. Consider removing it.", issue.Description())
}

func TestFunctionComplexityExceeds(t *testing.T) {
	fc := FunctionComplexity{Name: "f", Line: 1, Score: DefaultComplexityThreshold}
	assert.False(t, fc.Exceeds(DefaultComplexityThreshold))
	fc.Score++
	assert.True(t, fc.Exceeds(DefaultComplexityThreshold))
}

func TestReviewSummaryAdd(t *testing.T) {
	s := NewReviewSummary()
	s.Add(FileReview{Path: "a.py", Issues: []Issue{
		NewIssue(1, CategoryUnusedImport, "a"),
		NewIssue(2, CategoryUnusedImport, "b"),
	}})
	s.Add(FileReview{Path: "b.py", Error: "read failed"})

	assert.Equal(t, 2, s.Files)
	assert.Equal(t, 2, s.Issues)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.ByCategory[CategoryUnusedImport])
}

func TestSymbolRecordBind(t *testing.T) {
	r := SymbolRecord{}
	r.Bind("x", 1)
	r.Bind("x", 7)
	assert.Equal(t, 7, r["x"])
}
