package review

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/scry/pkg/models"
)

// Summarize counts issues over reviews and describes the distribution of
// function complexity. Functions scoring above threshold count as over the
// limit.
func Summarize(reviews []models.FileReview, threshold int) models.ReviewSummary {
	s := models.NewReviewSummary()
	var scores []float64
	for _, r := range reviews {
		s.Add(r)
		s.FlaggedLines += int(flaggedLines(r.Issues).GetCardinality())
		for _, fn := range r.Functions {
			scores = append(scores, float64(fn.Score))
			if fn.Exceeds(threshold) {
				s.Complexity.OverLimit++
			}
			if fn.Score > s.Complexity.Max {
				s.Complexity.Max = fn.Score
			}
		}
	}

	s.Complexity.Functions = len(scores)
	if len(scores) == 0 {
		return s
	}

	sort.Float64s(scores)
	s.Complexity.Mean = stat.Mean(scores, nil)
	s.Complexity.Median = stat.Quantile(0.5, stat.Empirical, scores, nil)
	s.Complexity.P90 = stat.Quantile(0.9, stat.Empirical, scores, nil)
	return s
}

// flaggedLines returns the set of lines with at least one issue. Line 0
// issues describe the whole file and are not counted.
func flaggedLines(issues []models.Issue) *roaring.Bitmap {
	lines := roaring.New()
	for _, issue := range issues {
		if issue.Line > 0 {
			lines.Add(uint32(issue.Line))
		}
	}
	return lines
}
