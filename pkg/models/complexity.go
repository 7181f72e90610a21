package models

// DefaultComplexityThreshold is the cyclomatic complexity above which a
// function is reported.
const DefaultComplexityThreshold = 10

// FunctionComplexity records the cyclomatic complexity of one function.
type FunctionComplexity struct {
	Name  string `json:"name" toon:"name"`
	Line  int    `json:"line" toon:"line"`
	Score int    `json:"score" toon:"score"`
}

// Exceeds reports whether the score is above threshold.
func (f FunctionComplexity) Exceeds(threshold int) bool {
	return f.Score > threshold
}

// ComplexitySummary describes the distribution of function complexity
// across a set of files.
type ComplexitySummary struct {
	Functions int     `json:"functions" toon:"functions"`
	Mean      float64 `json:"mean" toon:"mean"`
	Median    float64 `json:"median" toon:"median"`
	P90       float64 `json:"p90" toon:"p90"`
	Max       int     `json:"max" toon:"max"`
	OverLimit int     `json:"over_limit" toon:"over_limit"`
}
