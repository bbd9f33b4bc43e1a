package model

import "time"

// Document review statuses.
const (
	DocumentPending       = "pending"
	DocumentApproved      = "approved"
	DocumentRejected      = "rejected"
	DocumentNeedsRevision = "needs_revision"
)

// Document represents a submitted plan file: the object-storage reference,
// the text extracted from it, and the latest compliance result. History is
// not kept; a new compliance run overwrites the previous result.
type Document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID string    `json:"application_id,omitempty"`
	FileName      string    `json:"file_name"`
	StoragePath   string    `json:"storage_path"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Extraction *ExtractionMetadata `json:"extraction_metadata,omitempty"`
	Compliance *ComplianceResult   `json:"compliance_result,omitempty"`
}

// ExtractionMetadata records the outcome of the OCR pass over a document.
type ExtractionMetadata struct {
	Confidence float64   `json:"confidence"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retry_count,omitempty"`
}

// ComplianceResult is the persisted outcome of one compliance evaluation.
type ComplianceResult struct {
	Compliant            bool              `json:"compliant"`
	CompliancePercentage float64           `json:"compliance_percentage"`
	Details              ComplianceDetails `json:"compliance_details"`
	Issues               []string          `json:"issues"`
	Warnings             []string          `json:"warnings"`
	Suggestions          []string          `json:"suggestions"`
	TextQuality          string            `json:"text_quality"`
	TextExcerpt          string            `json:"text_excerpt"`
	AnalysisMethod       string            `json:"analysis_method"`
	Error                string            `json:"error,omitempty"`
}

// ComplianceDetails breaks the final percentage down into its rule-based and
// reviewer contributions.
type ComplianceDetails struct {
	RuleChecks     CheckStats `json:"rule_checks"`
	ReviewerChecks CheckStats `json:"reviewer_checks"`
	Weighted       bool       `json:"weighted"`
}

// CheckStats counts the passed and total checks of one scoring pass.
type CheckStats struct {
	Available  bool    `json:"available"`
	Passed     int     `json:"passed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
