package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"permitflow/internal/model"
	"permitflow/internal/ocr"
	"permitflow/internal/repository"
	"permitflow/internal/storage"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrReaderNil           = errors.New("reader is nil")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// maxUploadSize caps document uploads at 10MB.
const maxUploadSize = 10 << 20

const downloadExpiry = 15 * time.Minute

var allowedFileTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/tiff":      true,
}

// ComplianceEvaluator scores extracted document text against building
// standards. Satisfied by *compliance.Scorer.
type ComplianceEvaluator interface {
	Evaluate(ctx context.Context, text string) *model.ComplianceResult
}

// UploadInput carries one document upload.
type UploadInput struct {
	Reader        io.Reader
	FileName      string
	ContentType   string
	Size          int64
	UserID        string
	ApplicationID string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for plan documents.
type DocumentService interface {
	// Upload stores the file in object storage, extracts its text, and saves
	// the metadata. Extraction failure is recorded on the document rather
	// than failing the upload; a failed DB save rolls the stored object back.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// ListByUser returns the user's documents using limit/offset and a total
	// count.
	ListByUser(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error)

	// ListByApplication returns every document attached to an application.
	ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error)

	// Download returns a time-limited URL for fetching the document content.
	Download(ctx context.Context, id string) (string, error)

	// CheckCompliance scores the document's extracted text, persists the
	// result and, when compliant, approves the document and completes the
	// document-verification requirements of the owning application.
	CheckCompliance(ctx context.Context, id string) (*model.ComplianceResult, error)

	// UpdateStatus sets the document review status.
	UpdateStatus(ctx context.Context, id, status string) (*model.Document, error)

	// Delete removes a document from both storage and the database.
	Delete(ctx context.Context, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	db        *sql.DB
	store     storage.Storage
	docs      repository.DocumentRepository
	apps      repository.ApplicationRepository
	wf        repository.WorkflowRepository
	extractor ocr.TextExtractor
	scorer    ComplianceEvaluator
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(db *sql.DB, store storage.Storage, docs repository.DocumentRepository, apps repository.ApplicationRepository, wf repository.WorkflowRepository, extractor ocr.TextExtractor, scorer ComplianceEvaluator) DocumentService {
	return &documentService{
		db:        db,
		store:     store,
		docs:      docs,
		apps:      apps,
		wf:        wf,
		extractor: extractor,
		scorer:    scorer,
	}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if in.UserID == "" {
		return nil, ErrUserIDRequired
	}
	if !allowedFileTypes[strings.ToLower(in.ContentType)] {
		return nil, ErrUnsupportedFileType
	}
	if in.Size > maxUploadSize {
		return nil, ErrFileTooLarge
	}

	// The file is read once and replayed for storage and text extraction.
	data, err := io.ReadAll(io.LimitReader(in.Reader, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return nil, ErrFileTooLarge
	}

	ext := filepath.Ext(in.FileName)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	meta := &model.ExtractionMetadata{Timestamp: time.Now().UTC()}
	text := ""
	if s.extractor != nil {
		res, extractErr := s.extractor.Extract(ctx, bytes.NewReader(data), in.FileName, in.ContentType)
		if extractErr != nil {
			meta.Error = extractErr.Error()
		} else {
			text = res.Text
			meta.Confidence = res.Confidence
		}
	}

	doc := &model.Document{
		ID:            uuid.New().String(),
		UserID:        in.UserID,
		ApplicationID: in.ApplicationID,
		FileName:      in.FileName,
		StoragePath:   key,
		FileType:      in.ContentType,
		FileSize:      int64(len(data)),
		Status:        model.DocumentPending,
	}

	saved, err := s.saveUpload(ctx, doc, text, meta)
	if err != nil {
		// DB save failed; remove the orphaned object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("save document: %v; storage rollback failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	saved.ExtractedText = text
	saved.Extraction = meta
	return saved, nil
}

func (s *documentService) saveUpload(ctx context.Context, doc *model.Document, text string, meta *model.ExtractionMetadata) (*model.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	docs := s.docs.WithTx(tx)
	saved, err := docs.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := docs.UpdateExtraction(ctx, saved.ID, text, meta); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return saved, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrDocumentNotFound
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *documentService) ListByUser(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error) {
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

	page, err := s.docs.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &DocumentListResult{Items: page.Items, Total: page.Total}, nil
}

func (s *documentService) ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error) {
	if applicationID == "" {
		return nil, ErrApplicationIDRequired
	}
	return s.docs.ListByApplication(ctx, applicationID)
}

func (s *documentService) Download(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, downloadExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *documentService) CheckCompliance(ctx context.Context, id string) (*model.ComplianceResult, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.scorer.Evaluate(ctx, doc.ExtractedText)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	docs := s.docs.WithTx(tx)
	if err := docs.UpdateCompliance(ctx, doc.ID, result); err != nil {
		return nil, fmt.Errorf("save compliance result: %w", err)
	}
	if result.Compliant {
		if err := docs.UpdateStatus(ctx, doc.ID, model.DocumentApproved); err != nil {
			return nil, fmt.Errorf("approve document: %w", err)
		}
		if doc.ApplicationID != "" {
			if err := s.applyComplianceCascade(ctx, tx, doc.ApplicationID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// applyComplianceCascade approves a pending application whose document passed
// compliance and, when the current stage is a document-verification stage,
// completes its document and compliance requirements through the ledger.
func (s *documentService) applyComplianceCascade(ctx context.Context, tx *sql.Tx, applicationID string) error {
	apps := s.apps.WithTx(tx)
	wf := s.wf.WithTx(tx)

	app, err := apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("find application: %w", err)
	}
	if app.Status != model.ApplicationPending && app.Status != model.ApplicationSubmitted {
		return nil
	}

	if err := apps.UpdateStatus(ctx, applicationID, model.ApplicationApproved); err != nil {
		return fmt.Errorf("approve application: %w", err)
	}
	if app.CurrentStageID == "" {
		return nil
	}

	seq, err := loadSequence(ctx, wf)
	if err != nil {
		return err
	}
	stage, ok := seq.Get(app.CurrentStageID)
	if !ok {
		return nil
	}
	name := strings.ToLower(stage.Name)
	if !strings.Contains(name, "document") || !strings.Contains(name, "verification") {
		return nil
	}

	if err := wf.SeedRequirementCompletions(ctx, applicationID, stage.ID); err != nil {
		return fmt.Errorf("seed requirements: %w", err)
	}
	reqs, err := wf.ListRequirementsByStage(ctx, stage.ID)
	if err != nil {
		return fmt.Errorf("list requirements: %w", err)
	}
	for _, req := range reqs {
		lower := strings.ToLower(req.Name)
		if req.Type != "document" && req.Type != "compliance" &&
			!strings.Contains(lower, "document") && !strings.Contains(lower, "compliance") {
			continue
		}
		_, err := wf.UpdateRequirementStatus(ctx, applicationID, req.ID, model.RequirementCompleted,
			"", "", "Automatically marked as completed after successful compliance check")
		if err != nil {
			return fmt.Errorf("complete requirement: %w", err)
		}
	}
	if _, err := advanceCurrentStage(ctx, apps, wf, applicationID, stage.ID, "", ""); err != nil {
		return err
	}
	return nil
}

func (s *documentService) UpdateStatus(ctx context.Context, id, status string) (*model.Document, error) {
	switch status {
	case model.DocumentPending, model.DocumentApproved, model.DocumentRejected, model.DocumentNeedsRevision:
	default:
		return nil, ErrInvalidStatus
	}
	if err := s.docs.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete from storage: %w", err)
	}
	return s.docs.Delete(ctx, doc.ID)
}
