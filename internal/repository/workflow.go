package repository

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
)

// WorkflowRepository defines data access for the stage catalogue, per-stage
// requirements, and the two per-application ledgers (stage progress and
// requirement completion).
type WorkflowRepository interface {
	// ListStages returns the stage catalogue sorted by order number.
	ListStages(ctx context.Context) ([]model.Stage, error)

	// FindStageByName returns a stage by its exact name.
	FindStageByName(ctx context.Context, name string) (*model.Stage, error)

	// ListRequirementsByStage returns the requirements attached to a stage.
	ListRequirementsByStage(ctx context.Context, stageID string) ([]model.StageRequirement, error)

	// FindRequirementByID returns one stage requirement.
	FindRequirementByID(ctx context.Context, id string) (*model.StageRequirement, error)

	// UpsertProgress records that the application entered the stage. Re-entry
	// resets the row to in_progress without duplicating it.
	UpsertProgress(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error)

	// CompleteProgress marks the application's progress row for the stage as
	// completed.
	CompleteProgress(ctx context.Context, applicationID, stageID, completedBy, notes string) error

	// ListProgress returns all stages the application has entered, joined with
	// stage name and order, in stage order.
	ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error)

	// SeedRequirementCompletions inserts a pending completion row for every
	// requirement of the stage, skipping rows that already exist.
	SeedRequirementCompletions(ctx context.Context, applicationID, stageID string) error

	// UpdateRequirementStatus sets one requirement's completion state and
	// returns the updated row joined with its requirement and stage context.
	UpdateRequirementStatus(ctx context.Context, applicationID, requirementID, status, verifiedBy, referenceID, notes string) (*model.RequirementCompletion, error)

	// ListRequirementCompletions returns the application's completion rows for
	// one stage, joined with requirement context.
	ListRequirementCompletions(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error)

	// CountMandatory tallies the stage's mandatory requirements against the
	// application's completed rows.
	CountMandatory(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error)

	// WithTx returns a copy of the repository bound to the transaction.
	WithTx(tx *sql.Tx) WorkflowRepository
}
