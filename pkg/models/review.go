package models

// FileReview is the review result for one file.
type FileReview struct {
	Path      string               `json:"path" toon:"path"`
	Issues    []Issue              `json:"issues" toon:"issues"`
	Functions []FunctionComplexity `json:"functions,omitempty" toon:"functions"`
	Error     string               `json:"error,omitempty" toon:"error"`
	Cached    bool                 `json:"-" toon:"-"`
}

// ReviewSummary aggregates counts over a set of file reviews.
type ReviewSummary struct {
	Files      int              `json:"files" toon:"files"`
	Issues     int              `json:"issues" toon:"issues"`
	Failed     int              `json:"failed" toon:"failed"`
	ByCategory map[Category]int `json:"by_category" toon:"by_category"`
	// FlaggedLines counts distinct source lines carrying at least one issue.
	FlaggedLines int               `json:"flagged_lines" toon:"flagged_lines"`
	Complexity   ComplexitySummary `json:"complexity" toon:"complexity"`
}

// NewReviewSummary creates an initialized summary.
func NewReviewSummary() ReviewSummary {
	return ReviewSummary{
		ByCategory: make(map[Category]int),
	}
}

// Add counts the issues of one file review.
func (s *ReviewSummary) Add(r FileReview) {
	s.Files++
	if r.Error != "" {
		s.Failed++
	}
	s.Issues += len(r.Issues)
	for _, issue := range r.Issues {
		s.ByCategory[issue.Category]++
	}
}
