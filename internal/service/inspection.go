package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

var (
	ErrScheduleNotFound      = errors.New("inspection schedule not found")
	ErrAlreadyCompleted      = errors.New("inspection is already marked as completed")
	ErrNoInspectorAvailable  = errors.New("no inspector available")
	ErrScheduledDateRequired = errors.New("scheduled date is required")
	ErrInspectorIDRequired   = errors.New("inspector id is required")
)

// InspectionService defines the use cases for inspection scheduling.
type InspectionService interface {
	// ListTypes returns the inspection type reference data.
	ListTypes(ctx context.Context) ([]model.InspectionType, error)

	// FindAvailableInspector picks the least-loaded available inspector for
	// the date. District and inspection type narrow the candidates; an
	// unknown type id is ignored rather than failing the lookup. Ties break
	// alphabetically on inspector name.
	FindAvailableInspector(ctx context.Context, date, district, inspectionTypeID string) (*model.InspectorLoad, error)

	// CreateSchedule books an inspection. When no stage is given the lowest
	// stage without a scheduled or completed inspection is inferred, falling
	// back to the first stage.
	CreateSchedule(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error)

	// Get returns a schedule with inspector and stage context.
	Get(ctx context.Context, id string) (*model.InspectionSchedule, error)

	// ListByApplication returns the application's schedules, newest first.
	ListByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error)

	// ListByInspector returns one inspector's schedules for a date.
	ListByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error)

	// ListByUser returns the schedules of every application the user owns.
	ListByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error)

	// Update overwrites the mutable fields of a schedule.
	Update(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error)

	// CompleteInspection marks the schedule completed and feeds the
	// inspection requirements of its stage into the requirement ledger.
	// scheduleID may also be a stage id left over from older clients; the
	// newest schedule for that stage is completed instead.
	CompleteInspection(ctx context.Context, scheduleID, inspectorID, comments string) (*model.InspectionSchedule, error)

	// Delete removes a schedule.
	Delete(ctx context.Context, id string) error
}

// inspectionService is a concrete implementation of InspectionService.
type inspectionService struct {
	db   *sql.DB
	insp repository.InspectionRepository
	apps repository.ApplicationRepository
	wf   repository.WorkflowRepository
}

// NewInspectionService constructs a new InspectionService.
func NewInspectionService(db *sql.DB, insp repository.InspectionRepository, apps repository.ApplicationRepository, wf repository.WorkflowRepository) InspectionService {
	return &inspectionService{db: db, insp: insp, apps: apps, wf: wf}
}

func (s *inspectionService) ListTypes(ctx context.Context) ([]model.InspectionType, error) {
	return s.insp.ListInspectionTypes(ctx)
}

func (s *inspectionService) FindAvailableInspector(ctx context.Context, date, district, inspectionTypeID string) (*model.InspectorLoad, error) {
	if date == "" {
		return nil, ErrScheduledDateRequired
	}

	typeName := ""
	if inspectionTypeID != "" {
		types, err := s.insp.ListInspectionTypes(ctx)
		if err != nil {
			return nil, fmt.Errorf("list inspection types: %w", err)
		}
		for _, t := range types {
			if t.ID == inspectionTypeID {
				typeName = t.Name
				break
			}
		}
	}

	loads, err := s.insp.ListInspectorLoads(ctx, typeName, date)
	if err != nil {
		return nil, fmt.Errorf("list inspector loads: %w", err)
	}
	if district != "" {
		filtered := loads[:0]
		for _, l := range loads {
			if l.AssignedDistrict == district {
				filtered = append(filtered, l)
			}
		}
		loads = filtered
	}
	if len(loads) == 0 {
		return nil, ErrNoInspectorAvailable
	}

	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].ScheduledCount != loads[j].ScheduledCount {
			return loads[i].ScheduledCount < loads[j].ScheduledCount
		}
		return loads[i].Name < loads[j].Name
	})
	return &loads[0], nil
}

func (s *inspectionService) CreateSchedule(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	if sched == nil || sched.ApplicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	if sched.InspectorID == "" {
		return nil, ErrInspectorIDRequired
	}
	if sched.ScheduledDate == "" {
		return nil, ErrScheduledDateRequired
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	if sched.Status == "" {
		sched.Status = model.ScheduleScheduled
	}
	if sched.CreatedBy == "" {
		sched.CreatedBy = sched.ApplicationID
	}

	if sched.StageID == "" {
		stageID, err := s.inferStage(ctx, sched.ApplicationID)
		if err != nil {
			return nil, err
		}
		sched.StageID = stageID
	}

	created, err := s.insp.CreateSchedule(ctx, sched)
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return created, nil
}

// inferStage picks the lowest-order stage with no scheduled or completed
// inspection for the application, defaulting to the first stage.
func (s *inspectionService) inferStage(ctx context.Context, applicationID string) (string, error) {
	seq, err := loadSequence(ctx, s.wf)
	if err != nil {
		return "", err
	}
	first, ok := seq.First()
	if !ok {
		return "", ErrStageNotFound
	}

	existing, err := s.insp.ListSchedulesByApplication(ctx, applicationID)
	if err != nil {
		return "", fmt.Errorf("list schedules: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, sc := range existing {
		if sc.Status == model.ScheduleScheduled || sc.Status == model.ScheduleCompleted {
			taken[sc.StageID] = true
		}
	}
	for _, stage := range seq.Stages() {
		if !taken[stage.ID] {
			return stage.ID, nil
		}
	}
	return first.ID, nil
}

func (s *inspectionService) Get(ctx context.Context, id string) (*model.InspectionSchedule, error) {
	if id == "" {
		return nil, ErrScheduleNotFound
	}
	sched, err := s.insp.FindScheduleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return sched, nil
}

func (s *inspectionService) ListByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	return s.insp.ListSchedulesByApplication(ctx, applicationID)
}

func (s *inspectionService) ListByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error) {
	if inspectorID == "" {
		return nil, ErrInspectorIDRequired
	}
	if date == "" {
		return nil, ErrScheduledDateRequired
	}
	return s.insp.ListSchedulesByInspector(ctx, inspectorID, date)
}

func (s *inspectionService) ListByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.insp.ListSchedulesByUser(ctx, userID)
}

func (s *inspectionService) Update(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	if sched == nil || sched.ID == "" {
		return nil, ErrScheduleNotFound
	}
	updated, err := s.insp.UpdateSchedule(ctx, sched)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return updated, nil
}

func (s *inspectionService) CompleteInspection(ctx context.Context, scheduleID, inspectorID, comments string) (*model.InspectionSchedule, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insp := s.insp.WithTx(tx)
	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	sched, err := insp.FindScheduleByID(ctx, scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		// Old clients addressed inspections by stage id.
		sched, err = insp.FindLatestScheduleByStage(ctx, scheduleID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	if sched.Status == model.ScheduleCompleted {
		return nil, ErrAlreadyCompleted
	}

	if err := insp.UpdateScheduleStatus(ctx, sched.ID, model.ScheduleCompleted, comments); err != nil {
		return nil, fmt.Errorf("complete schedule: %w", err)
	}

	// Feed the stage's inspection requirements into the ledger and advance
	// the application if this closed out its current stage.
	if err := wf.SeedRequirementCompletions(ctx, sched.ApplicationID, sched.StageID); err != nil {
		return nil, fmt.Errorf("seed requirements: %w", err)
	}
	reqs, err := wf.ListRequirementsByStage(ctx, sched.StageID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	for _, req := range reqs {
		if req.Type != "inspection" {
			continue
		}
		_, err := wf.UpdateRequirementStatus(ctx, sched.ApplicationID, req.ID,
			model.RequirementCompleted, inspectorID, sched.ID, "Inspection completed")
		if err != nil {
			return nil, fmt.Errorf("complete requirement: %w", err)
		}
	}
	if _, err := advanceCurrentStage(ctx, apps, wf, sched.ApplicationID, sched.StageID, inspectorID, comments); err != nil {
		return nil, err
	}

	updated, err := insp.FindScheduleByID(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("reload schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

func (s *inspectionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrScheduleNotFound
	}
	if _, err := s.insp.FindScheduleByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("find schedule: %w", err)
	}
	return s.insp.DeleteSchedule(ctx, id)
}
