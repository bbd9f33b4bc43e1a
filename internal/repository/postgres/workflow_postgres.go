package postgres

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

// WorkflowPostgres is a PostgreSQL implementation of
// repository.WorkflowRepository.
type WorkflowPostgres struct {
	q repository.Querier
}

// NewWorkflowPostgres creates a new WorkflowPostgres repository.
func NewWorkflowPostgres(db *sql.DB) *WorkflowPostgres {
	return &WorkflowPostgres{q: db}
}

var _ repository.WorkflowRepository = (*WorkflowPostgres)(nil)

// WithTx returns a copy of the repository running against the transaction.
func (r *WorkflowPostgres) WithTx(tx *sql.Tx) repository.WorkflowRepository {
	return &WorkflowPostgres{q: tx}
}

// ListStages returns the stage catalogue sorted by order number.
func (r *WorkflowPostgres) ListStages(ctx context.Context) ([]model.Stage, error) {
	const q = `
		SELECT id, name, description, order_number, created_at
		FROM application_stages
		ORDER BY order_number
	`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]model.Stage, 0)
	for rows.Next() {
		var s model.Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.OrderNumber, &s.CreatedAt); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

// FindStageByName returns a stage by its exact name.
func (r *WorkflowPostgres) FindStageByName(ctx context.Context, name string) (*model.Stage, error) {
	const q = `
		SELECT id, name, description, order_number, created_at
		FROM application_stages
		WHERE name = $1
	`
	var s model.Stage
	err := r.q.QueryRowContext(ctx, q, name).Scan(&s.ID, &s.Name, &s.Description, &s.OrderNumber, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRequirementsByStage returns the requirements attached to a stage.
func (r *WorkflowPostgres) ListRequirementsByStage(ctx context.Context, stageID string) ([]model.StageRequirement, error) {
	const q = `
		SELECT id, stage_id, requirement_type, requirement_name, is_mandatory, description
		FROM stage_requirements
		WHERE stage_id = $1
		ORDER BY requirement_name
	`
	rows, err := r.q.QueryContext(ctx, q, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]model.StageRequirement, 0)
	for rows.Next() {
		var sr model.StageRequirement
		if err := rows.Scan(&sr.ID, &sr.StageID, &sr.Type, &sr.Name, &sr.IsMandatory, &sr.Description); err != nil {
			return nil, err
		}
		reqs = append(reqs, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// FindRequirementByID returns one stage requirement.
func (r *WorkflowPostgres) FindRequirementByID(ctx context.Context, id string) (*model.StageRequirement, error) {
	const q = `
		SELECT id, stage_id, requirement_type, requirement_name, is_mandatory, description
		FROM stage_requirements
		WHERE id = $1
	`
	var sr model.StageRequirement
	err := r.q.QueryRowContext(ctx, q, id).Scan(&sr.ID, &sr.StageID, &sr.Type, &sr.Name, &sr.IsMandatory, &sr.Description)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

// UpsertProgress records that the application entered the stage. Re-entering
// an already-visited stage resets its row to in_progress instead of inserting
// a duplicate.
func (r *WorkflowPostgres) UpsertProgress(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error) {
	const q = `
		INSERT INTO application_progress (application_id, stage_id, status, started_at)
		VALUES ($1, $2, 'in_progress', now())
		ON CONFLICT (application_id, stage_id)
		DO UPDATE SET status = 'in_progress', updated_at = now()
		RETURNING id, application_id, stage_id, status, started_at, completed_at,
			COALESCE(completed_by, ''), COALESCE(notes, '')
	`
	var p model.ApplicationProgress
	err := r.q.QueryRowContext(ctx, q, applicationID, stageID).Scan(
		&p.ID, &p.ApplicationID, &p.StageID, &p.Status,
		&p.StartedAt, &p.CompletedAt, &p.CompletedBy, &p.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CompleteProgress marks the application's progress row for the stage as
// completed.
func (r *WorkflowPostgres) CompleteProgress(ctx context.Context, applicationID, stageID, completedBy, notes string) error {
	const q = `
		UPDATE application_progress
		SET status = 'completed', completed_at = now(), completed_by = $3,
			notes = $4, updated_at = now()
		WHERE application_id = $1 AND stage_id = $2
	`
	res, err := r.q.ExecContext(ctx, q, applicationID, stageID, completedBy, notes)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListProgress returns all stages the application has entered, in stage
// order, joined with stage name and order number.
func (r *WorkflowPostgres) ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error) {
	const q = `
		SELECT p.id, p.application_id, p.stage_id, p.status, p.started_at,
			p.completed_at, COALESCE(p.completed_by, ''), COALESCE(p.notes, ''),
			s.name, s.order_number
		FROM application_progress p
		JOIN application_stages s ON s.id = p.stage_id
		WHERE p.application_id = $1
		ORDER BY s.order_number
	`
	rows, err := r.q.QueryContext(ctx, q, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ApplicationProgress, 0)
	for rows.Next() {
		var p model.ApplicationProgress
		if err := rows.Scan(
			&p.ID, &p.ApplicationID, &p.StageID, &p.Status, &p.StartedAt,
			&p.CompletedAt, &p.CompletedBy, &p.Notes,
			&p.StageName, &p.StageOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SeedRequirementCompletions inserts a pending completion row for every
// requirement of the stage. Existing rows are left untouched so completed
// work survives re-entry.
func (r *WorkflowPostgres) SeedRequirementCompletions(ctx context.Context, applicationID, stageID string) error {
	const q = `
		INSERT INTO requirement_completion (application_id, requirement_id, status)
		SELECT $1, sr.id, 'pending'
		FROM stage_requirements sr
		WHERE sr.stage_id = $2
		ON CONFLICT (application_id, requirement_id) DO NOTHING
	`
	_, err := r.q.ExecContext(ctx, q, applicationID, stageID)
	return err
}

// UpdateRequirementStatus sets one requirement's completion state and returns
// the updated row joined with its requirement and stage context.
func (r *WorkflowPostgres) UpdateRequirementStatus(ctx context.Context, applicationID, requirementID, status, verifiedBy, referenceID, notes string) (*model.RequirementCompletion, error) {
	const q = `
		UPDATE requirement_completion rc
		SET status = $3,
			completed_at = CASE WHEN $3 = 'completed' THEN now() ELSE NULL END,
			verified_by = $4, reference_id = $5, notes = $6, updated_at = now()
		FROM stage_requirements sr
		JOIN application_stages s ON s.id = sr.stage_id
		WHERE rc.application_id = $1 AND rc.requirement_id = $2 AND sr.id = rc.requirement_id
		RETURNING rc.id, rc.application_id, rc.requirement_id, rc.status,
			rc.completed_at, COALESCE(rc.verified_by, ''),
			COALESCE(rc.reference_id, ''), COALESCE(rc.notes, ''),
			sr.requirement_name, sr.requirement_type, sr.is_mandatory,
			s.id, s.name, s.order_number
	`
	var rc model.RequirementCompletion
	err := r.q.QueryRowContext(ctx, q, applicationID, requirementID, status, verifiedBy, referenceID, notes).Scan(
		&rc.ID, &rc.ApplicationID, &rc.RequirementID, &rc.Status,
		&rc.CompletedAt, &rc.VerifiedBy, &rc.ReferenceID, &rc.Notes,
		&rc.RequirementName, &rc.RequirementType, &rc.IsMandatory,
		&rc.StageID, &rc.StageName, &rc.StageOrder,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// ListRequirementCompletions returns the application's completion rows for
// one stage, joined with requirement context.
func (r *WorkflowPostgres) ListRequirementCompletions(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error) {
	const q = `
		SELECT rc.id, rc.application_id, rc.requirement_id, rc.status,
			rc.completed_at, COALESCE(rc.verified_by, ''),
			COALESCE(rc.reference_id, ''), COALESCE(rc.notes, ''),
			sr.requirement_name, sr.requirement_type, sr.is_mandatory,
			s.id, s.name, s.order_number
		FROM requirement_completion rc
		JOIN stage_requirements sr ON sr.id = rc.requirement_id
		JOIN application_stages s ON s.id = sr.stage_id
		WHERE rc.application_id = $1 AND sr.stage_id = $2
		ORDER BY sr.requirement_name
	`
	rows, err := r.q.QueryContext(ctx, q, applicationID, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RequirementCompletion, 0)
	for rows.Next() {
		var rc model.RequirementCompletion
		if err := rows.Scan(
			&rc.ID, &rc.ApplicationID, &rc.RequirementID, &rc.Status,
			&rc.CompletedAt, &rc.VerifiedBy, &rc.ReferenceID, &rc.Notes,
			&rc.RequirementName, &rc.RequirementType, &rc.IsMandatory,
			&rc.StageID, &rc.StageName, &rc.StageOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountMandatory tallies the stage's mandatory requirements against the
// application's completed rows.
func (r *WorkflowPostgres) CountMandatory(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE sr.is_mandatory),
			COUNT(*) FILTER (WHERE sr.is_mandatory AND rc.status = 'completed')
		FROM stage_requirements sr
		LEFT JOIN requirement_completion rc
			ON rc.requirement_id = sr.id AND rc.application_id = $1
		WHERE sr.stage_id = $2
	`
	var sc model.StageCompletion
	err := r.q.QueryRowContext(ctx, q, applicationID, stageID).Scan(&sc.TotalMandatory, &sc.CompletedMandatory)
	if err != nil {
		return nil, err
	}
	sc.IsComplete = sc.CompletedMandatory >= sc.TotalMandatory
	return &sc, nil
}
