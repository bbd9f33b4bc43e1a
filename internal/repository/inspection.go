package repository

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
)

// InspectionRepository defines data access for inspectors and inspection
// schedules.
type InspectionRepository interface {
	// ListInspectionTypes returns the inspection type reference data.
	ListInspectionTypes(ctx context.Context) ([]model.InspectionType, error)

	// ListInspectorLoads returns every available inspector together with the
	// number of non-cancelled inspections already scheduled for the date
	// (YYYY-MM-DD). An empty inspectionType matches all types.
	ListInspectorLoads(ctx context.Context, inspectionType, date string) ([]model.InspectorLoad, error)

	// CreateSchedule inserts a new schedule row and returns the stored record.
	CreateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error)

	// FindScheduleByID returns a schedule joined with inspector and stage
	// context.
	FindScheduleByID(ctx context.Context, id string) (*model.InspectionSchedule, error)

	// FindLatestScheduleByStage returns the most recent schedule created for
	// the stage, for resolving legacy stage-id references.
	FindLatestScheduleByStage(ctx context.Context, stageID string) (*model.InspectionSchedule, error)

	// ListSchedulesByApplication returns the application's schedules, newest
	// first.
	ListSchedulesByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error)

	// ListSchedulesByInspector returns one inspector's schedules for a date.
	ListSchedulesByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error)

	// ListSchedulesByUser returns the schedules of every application owned by
	// the user, newest first.
	ListSchedulesByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error)

	// UpdateSchedule overwrites the mutable fields of a schedule.
	UpdateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error)

	// UpdateScheduleStatus sets the schedule status and optional notes.
	UpdateScheduleStatus(ctx context.Context, id, status, notes string) error

	// DeleteSchedule removes a schedule by ID.
	DeleteSchedule(ctx context.Context, id string) error

	// WithTx returns a copy of the repository bound to the transaction.
	WithTx(tx *sql.Tx) InspectionRepository
}
