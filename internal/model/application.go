package model

import "time"

// Application statuses.
const (
	ApplicationPending   = "pending"
	ApplicationSubmitted = "submitted"
	ApplicationApproved  = "approved"
	ApplicationCompleted = "completed"
	ApplicationRejected  = "rejected"
)

// Application represents one permit request moving through the workflow.
// CurrentStageID is empty before submission; after final completion it keeps
// pointing at the last stage while Status becomes completed.
type Application struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Status             string     `json:"status"`
	CurrentStageID     string     `json:"current_stage_id,omitempty"`
	StandNumber        string     `json:"stand_number"`
	PostalAddress      string     `json:"postal_address"`
	District           string     `json:"district"`
	ConstructionType   string     `json:"construction_type"`
	ProjectDescription string     `json:"project_description"`
	Architect          string     `json:"architect"`
	OwnerName          string     `json:"owner_name"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ApplicationSummary is an Application joined with its current-stage name and
// requirement completion counts, used for per-user listings.
type ApplicationSummary struct {
	Application
	CurrentStageName      string `json:"current_stage_name,omitempty"`
	CurrentStageOrder     int    `json:"current_stage_order,omitempty"`
	CompletedRequirements int    `json:"completed_requirements"`
	TotalRequirements     int    `json:"total_requirements"`
}
