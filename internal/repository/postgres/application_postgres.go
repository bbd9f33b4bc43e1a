package postgres

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

// ApplicationPostgres is a PostgreSQL implementation of
// repository.ApplicationRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type ApplicationPostgres struct {
	q repository.Querier
}

// NewApplicationPostgres creates a new ApplicationPostgres repository.
func NewApplicationPostgres(db *sql.DB) *ApplicationPostgres {
	return &ApplicationPostgres{q: db}
}

var _ repository.ApplicationRepository = (*ApplicationPostgres)(nil)

// WithTx returns a copy of the repository running against the transaction.
func (r *ApplicationPostgres) WithTx(tx *sql.Tx) repository.ApplicationRepository {
	return &ApplicationPostgres{q: tx}
}

const applicationColumns = `
	id, user_id, status, COALESCE(current_stage_id::text, ''),
	stand_number, postal_address, district, construction_type,
	project_description, architect, owner_name,
	start_date, completion_date, created_at, updated_at
`

func scanApplication(row interface{ Scan(...any) error }) (*model.Application, error) {
	var a model.Application
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Status,
		&a.CurrentStageID,
		&a.StandNumber,
		&a.PostalAddress,
		&a.District,
		&a.ConstructionType,
		&a.ProjectDescription,
		&a.Architect,
		&a.OwnerName,
		&a.StartDate,
		&a.CompletionDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new application row and returns the stored record.
func (r *ApplicationPostgres) Create(ctx context.Context, app *model.Application) (*model.Application, error) {
	const q = `
		INSERT INTO applications (
			id, user_id, status, stand_number, postal_address, district,
			construction_type, project_description, architect, owner_name,
			start_date, completion_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + applicationColumns
	row := r.q.QueryRowContext(ctx, q,
		app.ID,
		app.UserID,
		app.Status,
		app.StandNumber,
		app.PostalAddress,
		app.District,
		app.ConstructionType,
		app.ProjectDescription,
		app.Architect,
		app.OwnerName,
		app.StartDate,
		app.CompletionDate,
	)
	return scanApplication(row)
}

// FindByID fetches a single application by its ID.
func (r *ApplicationPostgres) FindByID(ctx context.Context, id string) (*model.Application, error) {
	const q = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.q.QueryRowContext(ctx, q, id))
}

// ListByUser returns the user's applications joined with current stage and
// requirement counts, using LIMIT/OFFSET pagination and a total count.
func (r *ApplicationPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.ApplicationSummary], error) {
	const qCount = `SELECT COUNT(*) FROM applications WHERE user_id = $1`
	var total int
	if err := r.q.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + applicationColumns + `,
			COALESCE(s.name, ''), COALESCE(s.order_number, 0),
			(SELECT COUNT(*) FROM requirement_completion rc
				WHERE rc.application_id = applications.id AND rc.status = 'completed'),
			(SELECT COUNT(*) FROM requirement_completion rc
				WHERE rc.application_id = applications.id)
		FROM applications
		LEFT JOIN application_stages s ON s.id = applications.current_stage_id
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ApplicationSummary, 0)
	for rows.Next() {
		var s model.ApplicationSummary
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Status,
			&s.CurrentStageID,
			&s.StandNumber,
			&s.PostalAddress,
			&s.District,
			&s.ConstructionType,
			&s.ProjectDescription,
			&s.Architect,
			&s.OwnerName,
			&s.StartDate,
			&s.CompletionDate,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.CurrentStageName,
			&s.CurrentStageOrder,
			&s.CompletedRequirements,
			&s.TotalRequirements,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ApplicationSummary]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateStatus sets the application status.
func (r *ApplicationPostgres) UpdateStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id, status)
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

// SetCurrentStage moves the application pointer to the given stage.
func (r *ApplicationPostgres) SetCurrentStage(ctx context.Context, id, stageID string) error {
	const q = `UPDATE applications SET current_stage_id = $2, updated_at = now() WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id, stageID)
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

// Update overwrites the mutable detail fields of an application.
func (r *ApplicationPostgres) Update(ctx context.Context, app *model.Application) (*model.Application, error) {
	const q = `
		UPDATE applications SET
			stand_number = $2, postal_address = $3, district = $4,
			construction_type = $5, project_description = $6,
			architect = $7, owner_name = $8,
			start_date = $9, completion_date = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + applicationColumns
	row := r.q.QueryRowContext(ctx, q,
		app.ID,
		app.StandNumber,
		app.PostalAddress,
		app.District,
		app.ConstructionType,
		app.ProjectDescription,
		app.Architect,
		app.OwnerName,
		app.StartDate,
		app.CompletionDate,
	)
	return scanApplication(row)
}

// Delete removes an application by ID. Dependent rows cascade in the schema.
func (r *ApplicationPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM applications WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
