package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

var (
	ErrApplicationIDRequired = errors.New("application id is required")
	ErrNoCurrentStage        = errors.New("application has no current stage")
	ErrStageNotFound         = errors.New("stage not found")
	ErrRequirementNotFound   = errors.New("requirement not found")
	ErrInvalidRequirement    = errors.New("invalid requirement status")
)

// StageTransition reports what an advancement attempt did.
type StageTransition struct {
	Advanced             bool         `json:"advanced"`
	CompletedStage       *model.Stage `json:"completed_stage,omitempty"`
	NextStage            *model.Stage `json:"next_stage,omitempty"`
	ApplicationCompleted bool         `json:"application_completed"`
}

// UpdateRequirementInput carries one requirement-status change.
type UpdateRequirementInput struct {
	ApplicationID string `json:"application_id"`
	RequirementID string `json:"requirement_id"`
	Status        string `json:"status"`
	VerifiedBy    string `json:"verified_by"`
	ReferenceID   string `json:"reference_id"`
	Notes         string `json:"notes"`
}

// RequirementUpdateResult pairs the updated ledger row with the stage
// transition it triggered, if any.
type RequirementUpdateResult struct {
	Completion *model.RequirementCompletion `json:"completion"`
	Transition *StageTransition             `json:"transition"`
}

// WorkflowService drives applications through the ordered stage sequence and
// keeps the per-application requirement ledger.
type WorkflowService interface {
	// ListStages returns the stage catalogue in order.
	ListStages(ctx context.Context) ([]model.Stage, error)

	// GetCurrentStage returns the stage an application currently sits in.
	GetCurrentStage(ctx context.Context, applicationID string) (*model.Stage, error)

	// ListProgress returns every stage the application has entered, in order.
	ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error)

	// ListRequirements returns the application's requirement ledger for a
	// stage. An empty stageID defaults to the current stage.
	ListRequirements(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error)

	// EnterStage moves the application into the stage: the stage pointer is
	// updated, a progress row is upserted, and pending ledger rows are seeded
	// for every requirement of the stage. Entering the same stage twice is
	// harmless.
	EnterStage(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error)

	// EvaluateStageCompletion tallies the stage's mandatory requirements for
	// the application. A stage with no mandatory requirements is complete.
	EvaluateStageCompletion(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error)

	// UpdateRequirementStatus records one requirement-status change and runs
	// the advancement cascade in the same transaction.
	UpdateRequirementStatus(ctx context.Context, in UpdateRequirementInput) (*RequirementUpdateResult, error)

	// OnRequirementChanged re-evaluates the stage owning the requirement and
	// advances the application if every mandatory requirement is complete.
	// Other services call this after writing ledger rows out of band.
	OnRequirementChanged(ctx context.Context, applicationID, requirementID string) (*StageTransition, error)

	// MoveToNextStage force-completes the current stage and advances,
	// regardless of requirement state. Reserved for administrators.
	MoveToNextStage(ctx context.Context, applicationID, completedBy, notes string) (*StageTransition, error)
}

type workflowService struct {
	db   *sql.DB
	apps repository.ApplicationRepository
	wf   repository.WorkflowRepository
}

// NewWorkflowService constructs a new WorkflowService.
func NewWorkflowService(db *sql.DB, apps repository.ApplicationRepository, wf repository.WorkflowRepository) WorkflowService {
	return &workflowService{db: db, apps: apps, wf: wf}
}

func (s *workflowService) ListStages(ctx context.Context) ([]model.Stage, error) {
	return s.wf.ListStages(ctx)
}

func (s *workflowService) GetCurrentStage(ctx context.Context, applicationID string) (*model.Stage, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app.CurrentStageID == "" {
		return nil, ErrNoCurrentStage
	}
	seq, err := loadSequence(ctx, s.wf)
	if err != nil {
		return nil, err
	}
	stage, ok := seq.Get(app.CurrentStageID)
	if !ok {
		return nil, ErrStageNotFound
	}
	return &stage, nil
}

func (s *workflowService) ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	return s.wf.ListProgress(ctx, applicationID)
}

func (s *workflowService) ListRequirements(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	if stageID == "" {
		app, err := s.apps.FindByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrApplicationNotFound
			}
			return nil, fmt.Errorf("find application: %w", err)
		}
		if app.CurrentStageID == "" {
			return nil, ErrNoCurrentStage
		}
		stageID = app.CurrentStageID
	}
	return s.wf.ListRequirementCompletions(ctx, applicationID, stageID)
}

func (s *workflowService) EnterStage(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	progress, err := enterStage(ctx, s.apps.WithTx(tx), s.wf.WithTx(tx), applicationID, stageID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return progress, nil
}

func (s *workflowService) EvaluateStageCompletion(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	return s.wf.CountMandatory(ctx, applicationID, stageID)
}

func (s *workflowService) UpdateRequirementStatus(ctx context.Context, in UpdateRequirementInput) (*RequirementUpdateResult, error) {
	if in.ApplicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	switch in.Status {
	case model.RequirementPending, model.RequirementCompleted, model.RequirementRejected:
	default:
		return nil, ErrInvalidRequirement
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	rc, err := wf.UpdateRequirementStatus(ctx, in.ApplicationID, in.RequirementID, in.Status, in.VerifiedBy, in.ReferenceID, in.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("update requirement: %w", err)
	}

	transition, err := advanceCurrentStage(ctx, apps, wf, in.ApplicationID, rc.StageID, in.VerifiedBy, "")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &RequirementUpdateResult{Completion: rc, Transition: transition}, nil
}

func (s *workflowService) OnRequirementChanged(ctx context.Context, applicationID, requirementID string) (*StageTransition, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	wf := s.wf.WithTx(tx)
	req, err := wf.FindRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("find requirement: %w", err)
	}

	transition, err := advanceCurrentStage(ctx, s.apps.WithTx(tx), wf, applicationID, req.StageID, "", "")
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return transition, nil
}

func (s *workflowService) MoveToNextStage(ctx context.Context, applicationID, completedBy, notes string) (*StageTransition, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	app, err := apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app.CurrentStageID == "" {
		return nil, ErrNoCurrentStage
	}

	seq, err := loadSequence(ctx, wf)
	if err != nil {
		return nil, err
	}
	transition, err := completeAndAdvance(ctx, apps, wf, seq, applicationID, app.CurrentStageID, completedBy, notes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return transition, nil
}

// loadSequence snapshots the ordered stage catalogue for next-stage lookups.
func loadSequence(ctx context.Context, wf repository.WorkflowRepository) (*model.Sequence, error) {
	stages, err := wf.ListStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return model.NewSequence(stages), nil
}

// enterStage points the application at the stage, upserts its progress row
// and seeds pending ledger rows for the stage's requirements.
func enterStage(ctx context.Context, apps repository.ApplicationRepository, wf repository.WorkflowRepository, applicationID, stageID string) (*model.ApplicationProgress, error) {
	if err := apps.SetCurrentStage(ctx, applicationID, stageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("set current stage: %w", err)
	}
	progress, err := wf.UpsertProgress(ctx, applicationID, stageID)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	if err := wf.SeedRequirementCompletions(ctx, applicationID, stageID); err != nil {
		return nil, fmt.Errorf("seed requirements: %w", err)
	}
	return progress, nil
}

// advanceCurrentStage runs the requirement-change cascade: when the given
// stage is the application's current stage and all of its mandatory
// requirements are complete, the stage is closed and the application moves
// forward. Changes to requirements of past stages never move the pointer.
func advanceCurrentStage(ctx context.Context, apps repository.ApplicationRepository, wf repository.WorkflowRepository, applicationID, stageID, completedBy, notes string) (*StageTransition, error) {
	app, err := apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app.CurrentStageID != stageID {
		return &StageTransition{}, nil
	}

	sc, err := wf.CountMandatory(ctx, applicationID, stageID)
	if err != nil {
		return nil, fmt.Errorf("count mandatory: %w", err)
	}
	if !sc.IsComplete {
		return &StageTransition{}, nil
	}

	seq, err := loadSequence(ctx, wf)
	if err != nil {
		return nil, err
	}
	return completeAndAdvance(ctx, apps, wf, seq, applicationID, stageID, completedBy, notes)
}

// completeAndAdvance closes the stage's progress row and either enters the
// next stage or, from the final stage, marks the application completed.
func completeAndAdvance(ctx context.Context, apps repository.ApplicationRepository, wf repository.WorkflowRepository, seq *model.Sequence, applicationID, stageID, completedBy, notes string) (*StageTransition, error) {
	if err := wf.CompleteProgress(ctx, applicationID, stageID, completedBy, notes); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("complete progress: %w", err)
	}

	completed, ok := seq.Get(stageID)
	if !ok {
		return nil, ErrStageNotFound
	}
	transition := &StageTransition{Advanced: true, CompletedStage: &completed}

	next, ok := seq.Next(stageID)
	if !ok {
		if err := apps.UpdateStatus(ctx, applicationID, model.ApplicationCompleted); err != nil {
			return nil, fmt.Errorf("complete application: %w", err)
		}
		transition.ApplicationCompleted = true
		return transition, nil
	}

	if _, err := enterStage(ctx, apps, wf, applicationID, next.ID); err != nil {
		return nil, err
	}
	transition.NextStage = &next
	return transition, nil
}
