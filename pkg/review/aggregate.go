package review

import "github.com/panbanda/scry/pkg/models"

// Aggregate concatenates issue streams in the order given and drops every
// issue whose Key was already seen. The result is never nil.
func Aggregate(streams ...[]models.Issue) []models.Issue {
	seen := make(map[string]struct{})
	out := []models.Issue{}
	for _, stream := range streams {
		for _, issue := range stream {
			key := issue.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, issue)
		}
	}
	return out
}
