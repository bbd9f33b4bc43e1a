package review

import "context"

// Findings are the reviewer's categorized observations about a plan.
type Findings struct {
	Issues      []string `json:"issues"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// Reviewer analyzes extracted plan text against building standards and
// returns categorized findings. Implementations should return an error when
// the analysis could not run; callers fall back to rule-based checks.
type Reviewer interface {
	Review(ctx context.Context, text string) (*Findings, error)
}
