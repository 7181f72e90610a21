package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Category tags an issue with the detector rule that produced it. The zero
// value means the issue has no category.
type Category string

const (
	CategoryNone                    Category = ""
	CategoryUnusedImport            Category = "unused_import"
	CategoryUnusedVariable          Category = "unused_variable"
	CategoryHighComplexity          Category = "high_complexity"
	CategoryUnreachableCode         Category = "unreachable_code"
	CategoryInefficientLoop         Category = "inefficient_loop"
	CategoryMutationDuringIteration Category = "mutation_during_iteration"
	CategoryNestedLoop              Category = "nested_loop"
	CategoryAnalyzerError           Category = "analyzer_error"
)

// Categories lists every known category in report order.
var Categories = []Category{
	CategoryUnusedImport,
	CategoryUnusedVariable,
	CategoryHighComplexity,
	CategoryUnreachableCode,
	CategoryInefficientLoop,
	CategoryMutationDuringIteration,
	CategoryNestedLoop,
	CategoryAnalyzerError,
}

// IsValid reports whether c is empty or one of the known categories.
func (c Category) IsValid() bool {
	if c == CategoryNone {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the empty category as null.
func (c Category) MarshalJSON() ([]byte, error) {
	if c == CategoryNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON accepts a string or null.
func (c *Category) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = CategoryNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Category(s)
	return nil
}

// Issue is a single finding in one source unit. Line is 1-based; line 0 is
// reserved for findings about the unit as a whole, such as a parse failure.
type Issue struct {
	Line     int      `json:"line" toon:"line"`
	Message  string   `json:"message" toon:"message"`
	Category Category `json:"category" toon:"category"`
}

// NewIssue creates an issue.
func NewIssue(line int, category Category, message string) Issue {
	return Issue{Line: line, Message: message, Category: category}
}

// Key returns the deduplication key of the issue: the line plus the
// category when present, otherwise the line plus the normalized message.
// Analyzer faults are keyed by message so each failing analyzer keeps its
// own issue.
func (i Issue) Key() string {
	line := strconv.Itoa(i.Line)
	if i.Category == CategoryAnalyzerError {
		return line + "|fault:" + NormalizeMessage(i.Message)
	}
	if i.Category != CategoryNone {
		return line + "|category:" + string(i.Category)
	}
	return line + "|message:" + NormalizeMessage(i.Message)
}

// Description returns the message without its trailing tag suffix.
func (i Issue) Description() string {
	return NormalizeMessage(i.Message)
}

var tagSuffix = regexp.MustCompile(`\s*\[[^\[\]]*\]$`)

// NormalizeMessage trims msg and strips one trailing bracketed tag such as
// "[unused_import]".
func NormalizeMessage(msg string) string {
	return tagSuffix.ReplaceAllString(strings.TrimSpace(msg), "")
}
