package postgres

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

// InspectionPostgres is a PostgreSQL implementation of
// repository.InspectionRepository.
type InspectionPostgres struct {
	q repository.Querier
}

// NewInspectionPostgres creates a new InspectionPostgres repository.
func NewInspectionPostgres(db *sql.DB) *InspectionPostgres {
	return &InspectionPostgres{q: db}
}

var _ repository.InspectionRepository = (*InspectionPostgres)(nil)

// WithTx returns a copy of the repository running against the transaction.
func (r *InspectionPostgres) WithTx(tx *sql.Tx) repository.InspectionRepository {
	return &InspectionPostgres{q: tx}
}

// ListInspectionTypes returns the inspection type reference data.
func (r *InspectionPostgres) ListInspectionTypes(ctx context.Context) ([]model.InspectionType, error) {
	const q = `SELECT id, name FROM inspection_types ORDER BY name`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]model.InspectionType, 0)
	for rows.Next() {
		var t model.InspectionType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// ListInspectorLoads returns every available inspector with the number of
// non-cancelled inspections already scheduled for the date. An empty
// inspectionType matches all types.
func (r *InspectionPostgres) ListInspectorLoads(ctx context.Context, inspectionType, date string) ([]model.InspectorLoad, error) {
	const q = `
		SELECT i.id, i.name, i.work_id, i.inspection_type, i.assigned_district,
			i.available, COUNT(s.id)
		FROM inspectors i
		LEFT JOIN inspection_schedules s
			ON s.inspector_id = i.id
			AND s.scheduled_date = $2::date
			AND s.status != 'cancelled'
		WHERE ($1 = '' OR i.inspection_type = $1) AND i.available
		GROUP BY i.id, i.name, i.work_id, i.inspection_type, i.assigned_district, i.available
	`
	rows, err := r.q.QueryContext(ctx, q, inspectionType, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := make([]model.InspectorLoad, 0)
	for rows.Next() {
		var l model.InspectorLoad
		if err := rows.Scan(
			&l.ID, &l.Name, &l.WorkID, &l.InspectionType,
			&l.AssignedDistrict, &l.Available, &l.ScheduledCount,
		); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loads, nil
}

const scheduleColumns = `
	s.id, s.application_id, s.inspector_id, s.stage_id,
	to_char(s.scheduled_date, 'YYYY-MM-DD'), s.scheduled_time, s.status,
	COALESCE(s.notes, ''), COALESCE(s.created_by, ''), s.created_at, s.updated_at
`

// CreateSchedule inserts a new schedule row and returns the stored record.
func (r *InspectionPostgres) CreateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	const q = `
		INSERT INTO inspection_schedules AS s (
			id, application_id, inspector_id, stage_id,
			scheduled_date, scheduled_time, status, notes, created_by
		)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9)
		RETURNING ` + scheduleColumns
	row := r.q.QueryRowContext(ctx, q,
		s.ID,
		s.ApplicationID,
		s.InspectorID,
		s.StageID,
		s.ScheduledDate,
		s.ScheduledTime,
		s.Status,
		s.Notes,
		s.CreatedBy,
	)
	var out model.InspectionSchedule
	if err := row.Scan(
		&out.ID, &out.ApplicationID, &out.InspectorID, &out.StageID,
		&out.ScheduledDate, &out.ScheduledTime, &out.Status,
		&out.Notes, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindScheduleByID returns a schedule joined with inspector, stage and
// application context.
func (r *InspectionPostgres) FindScheduleByID(ctx context.Context, id string) (*model.InspectionSchedule, error) {
	const q = `
		SELECT ` + scheduleColumns + `,
			i.name, st.name, a.stand_number
		FROM inspection_schedules s
		JOIN inspectors i ON i.id = s.inspector_id
		JOIN application_stages st ON st.id = s.stage_id
		JOIN applications a ON a.id = s.application_id
		WHERE s.id = $1
	`
	var out model.InspectionSchedule
	err := r.q.QueryRowContext(ctx, q, id).Scan(
		&out.ID, &out.ApplicationID, &out.InspectorID, &out.StageID,
		&out.ScheduledDate, &out.ScheduledTime, &out.Status,
		&out.Notes, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
		&out.InspectorName, &out.StageName, &out.StandNumber,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindLatestScheduleByStage returns the most recent schedule created for a
// stage. Old clients sometimes address inspections by stage id; this lets the
// service resolve those references.
func (r *InspectionPostgres) FindLatestScheduleByStage(ctx context.Context, stageID string) (*model.InspectionSchedule, error) {
	const q = `
		SELECT ` + scheduleColumns + `
		FROM inspection_schedules s
		WHERE s.stage_id = $1
		ORDER BY s.created_at DESC
		LIMIT 1
	`
	var out model.InspectionSchedule
	err := r.q.QueryRowContext(ctx, q, stageID).Scan(
		&out.ID, &out.ApplicationID, &out.InspectorID, &out.StageID,
		&out.ScheduledDate, &out.ScheduledTime, &out.Status,
		&out.Notes, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSchedulesByApplication returns the application's schedules, newest
// first.
func (r *InspectionPostgres) ListSchedulesByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error) {
	const q = `
		SELECT ` + scheduleColumns + `,
			i.name, st.name
		FROM inspection_schedules s
		JOIN inspectors i ON i.id = s.inspector_id
		JOIN application_stages st ON st.id = s.stage_id
		WHERE s.application_id = $1
		ORDER BY s.scheduled_date DESC, s.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, q, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InspectionSchedule, 0)
	for rows.Next() {
		var s model.InspectionSchedule
		if err := rows.Scan(
			&s.ID, &s.ApplicationID, &s.InspectorID, &s.StageID,
			&s.ScheduledDate, &s.ScheduledTime, &s.Status,
			&s.Notes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
			&s.InspectorName, &s.StageName,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListSchedulesByInspector returns one inspector's schedules for a date.
func (r *InspectionPostgres) ListSchedulesByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error) {
	const q = `
		SELECT ` + scheduleColumns + `,
			st.name, a.stand_number
		FROM inspection_schedules s
		JOIN application_stages st ON st.id = s.stage_id
		JOIN applications a ON a.id = s.application_id
		WHERE s.inspector_id = $1 AND s.scheduled_date = $2::date
		ORDER BY s.scheduled_time
	`
	rows, err := r.q.QueryContext(ctx, q, inspectorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InspectionSchedule, 0)
	for rows.Next() {
		var s model.InspectionSchedule
		if err := rows.Scan(
			&s.ID, &s.ApplicationID, &s.InspectorID, &s.StageID,
			&s.ScheduledDate, &s.ScheduledTime, &s.Status,
			&s.Notes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
			&s.StageName, &s.StandNumber,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListSchedulesByUser returns the schedules of every application owned by the
// user, newest first.
func (r *InspectionPostgres) ListSchedulesByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error) {
	const q = `
		SELECT ` + scheduleColumns + `,
			i.name, st.name, a.stand_number
		FROM inspection_schedules s
		JOIN inspectors i ON i.id = s.inspector_id
		JOIN application_stages st ON st.id = s.stage_id
		JOIN applications a ON a.id = s.application_id
		WHERE a.user_id = $1
		ORDER BY s.scheduled_date DESC, s.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InspectionSchedule, 0)
	for rows.Next() {
		var s model.InspectionSchedule
		if err := rows.Scan(
			&s.ID, &s.ApplicationID, &s.InspectorID, &s.StageID,
			&s.ScheduledDate, &s.ScheduledTime, &s.Status,
			&s.Notes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
			&s.InspectorName, &s.StageName, &s.StandNumber,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSchedule overwrites the mutable fields of a schedule.
func (r *InspectionPostgres) UpdateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	const q = `
		UPDATE inspection_schedules AS s
		SET inspector_id = $2, scheduled_date = $3::date, scheduled_time = $4,
			status = $5, notes = $6, updated_at = now()
		WHERE s.id = $1
		RETURNING ` + scheduleColumns
	row := r.q.QueryRowContext(ctx, q,
		s.ID,
		s.InspectorID,
		s.ScheduledDate,
		s.ScheduledTime,
		s.Status,
		s.Notes,
	)
	var out model.InspectionSchedule
	if err := row.Scan(
		&out.ID, &out.ApplicationID, &out.InspectorID, &out.StageID,
		&out.ScheduledDate, &out.ScheduledTime, &out.Status,
		&out.Notes, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateScheduleStatus sets the schedule status and optional notes.
func (r *InspectionPostgres) UpdateScheduleStatus(ctx context.Context, id, status, notes string) error {
	const q = `
		UPDATE inspection_schedules
		SET status = $2, notes = COALESCE(NULLIF($3, ''), notes), updated_at = now()
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, q, id, status, notes)
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

// DeleteSchedule removes a schedule by ID.
func (r *InspectionPostgres) DeleteSchedule(ctx context.Context, id string) error {
	const q = `DELETE FROM inspection_schedules WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
