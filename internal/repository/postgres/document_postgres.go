package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. Extraction metadata and compliance results
// are stored as JSONB alongside the row.
type DocumentPostgres struct {
	q repository.Querier
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{q: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// WithTx returns a copy of the repository running against the transaction.
func (r *DocumentPostgres) WithTx(tx *sql.Tx) repository.DocumentRepository {
	return &DocumentPostgres{q: tx}
}

const documentColumns = `
	id, user_id, COALESCE(application_id::text, ''), file_name, storage_path,
	file_type, file_size, extracted_text, status,
	extraction_metadata, compliance_result, created_at, updated_at
`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d          model.Document
		extraction []byte
		compliance []byte
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.ApplicationID,
		&d.FileName,
		&d.StoragePath,
		&d.FileType,
		&d.FileSize,
		&d.ExtractedText,
		&d.Status,
		&extraction,
		&compliance,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(extraction) > 0 {
		var meta model.ExtractionMetadata
		if err := json.Unmarshal(extraction, &meta); err != nil {
			return nil, err
		}
		d.Extraction = &meta
	}
	if len(compliance) > 0 {
		var res model.ComplianceResult
		if err := json.Unmarshal(compliance, &res); err != nil {
			return nil, err
		}
		d.Compliance = &res
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (
			id, user_id, application_id, file_name, storage_path,
			file_type, file_size, status
		)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	row := r.q.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.ApplicationID,
		doc.FileName,
		doc.StoragePath,
		doc.FileType,
		doc.FileSize,
		doc.Status,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.q.QueryRowContext(ctx, q, id))
}

// ListByUser returns the user's documents using LIMIT/OFFSET pagination and a
// total count.
func (r *DocumentPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var total int
	if err := r.q.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListByApplication returns every document attached to an application.
func (r *DocumentPostgres) ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE application_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.q.QueryContext(ctx, q, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateExtraction stores the OCR text and metadata for a document.
func (r *DocumentPostgres) UpdateExtraction(ctx context.Context, id, text string, meta *model.ExtractionMetadata) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	const q = `
		UPDATE documents
		SET extracted_text = $2, extraction_metadata = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, q, id, text, b)
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

// UpdateCompliance stores the latest compliance result, replacing any
// previous one.
func (r *DocumentPostgres) UpdateCompliance(ctx context.Context, id string, result *model.ComplianceResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	const q = `
		UPDATE documents
		SET compliance_result = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, q, id, b)
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

// UpdateStatus sets the document review status.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`
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

// Delete removes a document by ID. It does not return an error if the row
// does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
