package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserIDRequired      = errors.New("user id is required")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrNotSubmittable      = errors.New("only pending applications can be submitted")
)

// ApplicationListResult is the service-level DTO for paginated applications.
type ApplicationListResult struct {
	Items []model.ApplicationSummary `json:"data"`
	Total int                        `json:"total"`
}

// ApplicationService defines the use cases for permit applications.
type ApplicationService interface {
	// Create stores a new application. When the initial status is submitted
	// the application immediately enters the first workflow stage.
	Create(ctx context.Context, app *model.Application) (*model.Application, error)

	// Get returns a single application by its ID.
	Get(ctx context.Context, id string) (*model.Application, error)

	// ListByUser returns the user's applications with current-stage context
	// and requirement counts.
	ListByUser(ctx context.Context, userID string, limit, offset int) (*ApplicationListResult, error)

	// Submit moves a pending application into the workflow.
	Submit(ctx context.Context, id string) (*model.Application, error)

	// UpdateStatus sets the application status.
	UpdateStatus(ctx context.Context, id, status string) (*model.Application, error)

	// Delete removes an application and its dependent rows.
	Delete(ctx context.Context, id string) error
}

// applicationService is a concrete implementation of ApplicationService.
type applicationService struct {
	db   *sql.DB
	apps repository.ApplicationRepository
	wf   repository.WorkflowRepository
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(db *sql.DB, apps repository.ApplicationRepository, wf repository.WorkflowRepository) ApplicationService {
	return &applicationService{db: db, apps: apps, wf: wf}
}

func (s *applicationService) Create(ctx context.Context, app *model.Application) (*model.Application, error) {
	if app == nil || app.UserID == "" {
		return nil, ErrUserIDRequired
	}
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	if app.Status != model.ApplicationPending && app.Status != model.ApplicationSubmitted {
		return nil, ErrInvalidStatus
	}
	if app.ID == "" {
		app.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	created, err := apps.Create(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if created.Status == model.ApplicationSubmitted {
		created, err = enterFirstStage(ctx, apps, wf, created)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

func (s *applicationService) Get(ctx context.Context, id string) (*model.Application, error) {
	if id == "" {
		return nil, ErrApplicationIDRequired
	}
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *applicationService) ListByUser(ctx context.Context, userID string, limit, offset int) (*ApplicationListResult, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.apps.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return &ApplicationListResult{Items: page.Items, Total: page.Total}, nil
}

func (s *applicationService) Submit(ctx context.Context, id string) (*model.Application, error) {
	if id == "" {
		return nil, ErrApplicationIDRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	app, err := apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app.Status != model.ApplicationPending {
		return nil, ErrNotSubmittable
	}

	if err := apps.UpdateStatus(ctx, id, model.ApplicationSubmitted); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	app.Status = model.ApplicationSubmitted

	app, err = enterFirstStage(ctx, apps, wf, app)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return app, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id, status string) (*model.Application, error) {
	if id == "" {
		return nil, ErrApplicationIDRequired
	}
	switch status {
	case model.ApplicationPending, model.ApplicationSubmitted, model.ApplicationApproved,
		model.ApplicationCompleted, model.ApplicationRejected:
	default:
		return nil, ErrInvalidStatus
	}

	if err := s.apps.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.apps.FindByID(ctx, id)
}

func (s *applicationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrApplicationIDRequired
	}
	if _, err := s.apps.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("find application: %w", err)
	}
	return s.apps.Delete(ctx, id)
}

// enterFirstStage seeds a freshly submitted application into the first stage
// of the catalogue. An empty catalogue leaves the application staged nowhere.
func enterFirstStage(ctx context.Context, apps repository.ApplicationRepository, wf repository.WorkflowRepository, app *model.Application) (*model.Application, error) {
	seq, err := loadSequence(ctx, wf)
	if err != nil {
		return nil, err
	}
	first, ok := seq.First()
	if !ok {
		return app, nil
	}
	if _, err := enterStage(ctx, apps, wf, app.ID, first.ID); err != nil {
		return nil, err
	}
	app.CurrentStageID = first.ID
	return app, nil
}
