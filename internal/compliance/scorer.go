package compliance

import (
	"context"
	"math"
	"regexp"
	"strings"

	"permitflow/internal/config"
	"permitflow/internal/model"
	"permitflow/internal/review"
)

const excerptLength = 500

// Scorer combines the rule engine with an external reviewer into one
// compliance verdict. The reviewer is optional at runtime: any reviewer
// failure degrades the verdict to rule-based scoring instead of aborting.
type Scorer struct {
	cfg      config.ComplianceConfig
	reviewer review.Reviewer
}

// NewScorer builds a scorer with the given weights and reviewer.
func NewScorer(cfg config.ComplianceConfig, reviewer review.Reviewer) *Scorer {
	return &Scorer{cfg: cfg, reviewer: reviewer}
}

// Evaluate scores the extracted text of one document. It always returns a
// result; failures are encoded in the result's Error field.
func (s *Scorer) Evaluate(ctx context.Context, text string) *model.ComplianceResult {
	if len(strings.TrimSpace(text)) < s.cfg.MinTextLength {
		return &model.ComplianceResult{
			Compliant:            false,
			CompliancePercentage: 0,
			Issues:               []string{"Document text extraction failed or insufficient text content"},
			Warnings:             []string{"The system could not extract enough text from your document to perform a compliance check"},
			Suggestions: []string{
				"Upload a clearer document",
				"Ensure the document is not password protected",
				"Try a different file format (PDF is recommended)",
			},
			TextQuality:    "poor",
			TextExcerpt:    excerpt(text),
			AnalysisMethod: "none",
			Error:          "insufficient text content",
		}
	}

	if len(text) > s.cfg.MaxTextLength {
		return &model.ComplianceResult{
			Compliant:            false,
			CompliancePercentage: 0,
			Issues:               []string{"Document is very large, which may affect analysis accuracy"},
			Warnings:             []string{"The document is too large for detailed analysis"},
			Suggestions: []string{
				"Consider uploading a smaller document or one with less text content",
				"Try splitting large documents into smaller sections",
			},
			TextQuality:    AssessTextQuality(text),
			TextExcerpt:    excerpt(text),
			AnalysisMethod: "none",
			Error:          "document size exceeds recommended limits",
		}
	}

	rules := RunRuleChecks(text)
	rulePct := rules.Percentage()

	details := model.ComplianceDetails{
		RuleChecks: model.CheckStats{
			Available:  true,
			Passed:     rules.Passed(),
			Total:      rules.Total(),
			Percentage: rulePct,
		},
	}

	var (
		findings  *review.Findings
		reviewErr error
	)
	if s.reviewer != nil {
		findings, reviewErr = s.reviewer.Review(ctx, text)
	}

	result := &model.ComplianceResult{
		Issues:      append([]string{}, rules.Issues...),
		TextQuality: AssessTextQuality(text),
		TextExcerpt: excerpt(text),
	}

	var pct float64
	if s.reviewer != nil && reviewErr == nil && findings != nil {
		reviewerPassed := s.cfg.AssumedAIChecks - len(findings.Issues)
		if reviewerPassed < 0 {
			reviewerPassed = 0
		}
		reviewerPct := float64(reviewerPassed) / float64(s.cfg.AssumedAIChecks) * 100

		details.ReviewerChecks = model.CheckStats{
			Available:  true,
			Passed:     reviewerPassed,
			Total:      s.cfg.AssumedAIChecks,
			Percentage: reviewerPct,
		}
		details.Weighted = true

		pct = reviewerPct*s.cfg.AIWeight + rulePct*s.cfg.RuleWeight
		result.Issues = append(result.Issues, findings.Issues...)
		result.Warnings = findings.Warnings
		result.Suggestions = findings.Suggestions
		result.AnalysisMethod = "hybrid"
	} else {
		pct = rulePct
		details.ReviewerChecks = model.CheckStats{Available: false}
		result.AnalysisMethod = "rule-based"
		if reviewErr != nil {
			result.Warnings = []string{"AI compliance check could not be completed."}
			result.Suggestions = []string{
				"The system will use rule-based checks for compliance analysis.",
				"The rule-based checks provide a good baseline for compliance.",
			}
			result.Error = reviewErr.Error()
		}
	}

	result.CompliancePercentage = round2(pct)
	result.Compliant = result.CompliancePercentage >= s.cfg.Threshold
	result.Details = details
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func excerpt(text string) string {
	if text == "" {
		return "No text extracted"
	}
	if len(text) > excerptLength {
		return text[:excerptLength] + "..."
	}
	return text
}

var qualityTermRe = regexp.MustCompile(`(?i)(floor|wall|ceiling|roof|foundation|dimension|height|width|length|area|square|met(?:er|re)|feet|building|structure|plan|elevation|section|detail)`)

// AssessTextQuality grades extracted text as excellent, good, fair or poor
// based on length, OCR artifacts, and building vocabulary density.
func AssessTextQuality(text string) string {
	if len(strings.TrimSpace(text)) < 50 {
		return "poor"
	}

	garbled := garbledQualityRe.MatchString(text)
	missingSpaces := missingSpaceQualityRe.MatchString(text)

	terms := map[string]bool{}
	for _, m := range qualityTermRe.FindAllString(strings.ToLower(text), -1) {
		terms[m] = true
	}
	termCount := len(terms)

	switch {
	case len(text) > 1000 && termCount >= 10 && !garbled && !missingSpaces:
		return "excellent"
	case len(text) > 500 && termCount >= 5 && !garbled:
		return "good"
	case len(text) > 200 && termCount >= 3:
		return "fair"
	default:
		return "poor"
	}
}

var (
	garbledQualityRe      = regexp.MustCompile(`[^\w\s.,;:'"()\[\]{}?!@#$%^&*+=<>|\\/-]{10,}`)
	missingSpaceQualityRe = regexp.MustCompile(`[a-zA-Z]{20,}`)
)
