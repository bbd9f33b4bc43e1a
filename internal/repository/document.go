package repository

import (
	"context"
	"database/sql"

	"permitflow/internal/model"
)

// DocumentRepository defines data access for uploaded plan documents.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByUser returns a page of the user's documents, newest first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Document], error)

	// ListByApplication returns every document attached to an application.
	ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error)

	// UpdateExtraction stores the OCR text and metadata for a document.
	UpdateExtraction(ctx context.Context, id, text string, meta *model.ExtractionMetadata) error

	// UpdateCompliance stores the latest compliance result, replacing any
	// previous one.
	UpdateCompliance(ctx context.Context, id string, res *model.ComplianceResult) error

	// UpdateStatus sets the document review status.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error

	// WithTx returns a copy of the repository bound to the transaction.
	WithTx(tx *sql.Tx) DocumentRepository
}
