package model

import "time"

// Progress statuses for a stage entered by an application.
const (
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// Requirement completion statuses.
const (
	RequirementPending   = "pending"
	RequirementCompleted = "completed"
	RequirementRejected  = "rejected"
)

// Stage is one ordered step in the permit-approval sequence. Stages are
// shared reference data edited only by administrators; OrderNumber values are
// unique and define the single legal path through the workflow.
type Stage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OrderNumber int       `json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// StageRequirement is a condition attached to a stage. Mandatory requirements
// gate advancement; non-mandatory ones are informational.
type StageRequirement struct {
	ID          string `json:"id"`
	StageID     string `json:"stage_id"`
	Type        string `json:"requirement_type"`
	Name        string `json:"requirement_name"`
	IsMandatory bool   `json:"is_mandatory"`
	Description string `json:"description"`
}

// ApplicationProgress records one stage ever entered by an application.
// There is at most one row per (application, stage) pair.
type ApplicationProgress struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	StageID       string     `json:"stage_id"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	StageName     string     `json:"stage_name,omitempty"`
	StageOrder    int        `json:"stage_order,omitempty"`
}

// RequirementCompletion tracks one requirement's state for one application.
// Rows are seeded as pending when the application enters the owning stage.
type RequirementCompletion struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	RequirementID string     `json:"requirement_id"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	VerifiedBy    string     `json:"verified_by,omitempty"`
	ReferenceID   string     `json:"reference_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	// Joined requirement/stage context for listings.
	RequirementName string `json:"requirement_name,omitempty"`
	RequirementType string `json:"requirement_type,omitempty"`
	IsMandatory     bool   `json:"is_mandatory,omitempty"`
	StageID         string `json:"stage_id,omitempty"`
	StageName       string `json:"stage_name,omitempty"`
	StageOrder      int    `json:"stage_order,omitempty"`
}

// StageCompletion is the result of evaluating a stage's mandatory
// requirements for an application.
type StageCompletion struct {
	IsComplete         bool `json:"is_complete"`
	TotalMandatory     int  `json:"total_mandatory"`
	CompletedMandatory int  `json:"completed_mandatory"`
}

// Sequence is the immutable ordered list of stages for one workflow run.
// It is built from the stage catalogue sorted by OrderNumber so next-stage
// lookups are index arithmetic rather than relational queries.
type Sequence struct {
	stages []Stage
	index  map[string]int
}

// NewSequence builds a Sequence from stages already sorted by order number.
func NewSequence(stages []Stage) *Sequence {
	idx := make(map[string]int, len(stages))
	for i, s := range stages {
		idx[s.ID] = i
	}
	return &Sequence{stages: stages, index: idx}
}

// Stages returns the ordered catalogue.
func (s *Sequence) Stages() []Stage { return s.stages }

// Len returns the number of stages in the sequence.
func (s *Sequence) Len() int { return len(s.stages) }

// First returns the first stage, or false for an empty catalogue.
func (s *Sequence) First() (Stage, bool) {
	if len(s.stages) == 0 {
		return Stage{}, false
	}
	return s.stages[0], true
}

// Get returns the stage with the given id.
func (s *Sequence) Get(stageID string) (Stage, bool) {
	i, ok := s.index[stageID]
	if !ok {
		return Stage{}, false
	}
	return s.stages[i], true
}

// Next returns the stage immediately after stageID, or false when stageID is
// the final stage or unknown.
func (s *Sequence) Next(stageID string) (Stage, bool) {
	i, ok := s.index[stageID]
	if !ok || i+1 >= len(s.stages) {
		return Stage{}, false
	}
	return s.stages[i+1], true
}

// IsLast reports whether stageID is the final stage of the sequence.
func (s *Sequence) IsLast(stageID string) bool {
	i, ok := s.index[stageID]
	return ok && i == len(s.stages)-1
}
