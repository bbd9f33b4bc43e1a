package repository

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
)

// ApplicationRepository defines data access for permit applications using SQL
// queries only. No business logic here — strictly persistence operations.
type ApplicationRepository interface {
	// Create inserts a new application record and returns the stored row.
	Create(ctx context.Context, app *model.Application) (*model.Application, error)

	// FindByID returns an application by its ID.
	FindByID(ctx context.Context, id string) (*model.Application, error)

	// ListByUser returns a page of the user's applications joined with their
	// current stage and requirement completion counts, newest first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.ApplicationSummary], error)

	// UpdateStatus sets the application status.
	UpdateStatus(ctx context.Context, id, status string) error

	// SetCurrentStage moves the application pointer to the given stage.
	SetCurrentStage(ctx context.Context, id, stageID string) error

	// Update overwrites the mutable detail fields of an application.
	Update(ctx context.Context, app *model.Application) (*model.Application, error)

	// Delete removes an application; progress, completions, schedules and
	// documents cascade at the database level.
	Delete(ctx context.Context, id string) error

	// WithTx returns a copy of the repository bound to the transaction.
	WithTx(tx *sql.Tx) ApplicationRepository
}
