package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
	"permitflow/internal/ocr"
	ocrMocks "permitflow/internal/ocr/mocks"
	repoMocks "permitflow/internal/repository/mocks"
	"permitflow/internal/storage"
	storeMocks "permitflow/internal/storage/mocks"
)

type stubScorer struct {
	res *model.ComplianceResult
}

func (s stubScorer) Evaluate(ctx context.Context, text string) *model.ComplianceResult {
	return s.res
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	store := new(storeMocks.MockStorage)
	docs := new(repoMocks.MockDocumentRepository)
	extractor := new(ocrMocks.MockTextExtractor)

	store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
	}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
		return opt.Size == 9 && opt.ContentType == "application/pdf" &&
			opt.Metadata["original-filename"] == "plan.pdf"
	})).Return(storage.ObjectInfo{}, nil)
	extractor.On("Extract", ctx, mock.Anything, "plan.pdf", "application/pdf").
		Return(&ocr.Result{Text: "LINTEL LEVEL 2.1m", Confidence: 0.8}, nil)
	docs.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
		return d.UserID == "user-1" && d.ApplicationID == "app-1" &&
			d.FileSize == 9 && d.Status == model.DocumentPending
	})).Return(&model.Document{ID: "doc-1", UserID: "user-1"}, nil)
	docs.On("UpdateExtraction", ctx, "doc-1", "LINTEL LEVEL 2.1m", mock.MatchedBy(func(m *model.ExtractionMetadata) bool {
		return m.Confidence == 0.8 && m.Error == ""
	})).Return(nil)

	svc := NewDocumentService(db, store, docs, nil, nil, extractor, stubScorer{})
	doc, err := svc.Upload(ctx, UploadInput{
		Reader:        strings.NewReader("plan data"),
		FileName:      "plan.pdf",
		ContentType:   "application/pdf",
		Size:          9,
		UserID:        "user-1",
		ApplicationID: "app-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "LINTEL LEVEL 2.1m", doc.ExtractedText)
	assert.Equal(t, 0.8, doc.Extraction.Confidence)
	assert.NoError(t, dbm.ExpectationsWereMet())
	store.AssertExpectations(t)
	docs.AssertExpectations(t)
}

func TestDocumentService_Upload_ExtractionFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	store := new(storeMocks.MockStorage)
	docs := new(repoMocks.MockDocumentRepository)
	extractor := new(ocrMocks.MockTextExtractor)

	store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil)
	extractor.On("Extract", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("ocr service unreachable"))
	docs.On("Create", ctx, mock.Anything).
		Return(&model.Document{ID: "doc-1"}, nil)
	docs.On("UpdateExtraction", ctx, "doc-1", "", mock.MatchedBy(func(m *model.ExtractionMetadata) bool {
		return m.Error == "ocr service unreachable"
	})).Return(nil)

	svc := NewDocumentService(db, store, docs, nil, nil, extractor, stubScorer{})
	doc, err := svc.Upload(ctx, UploadInput{
		Reader:      strings.NewReader("plan data"),
		FileName:    "plan.pdf",
		ContentType: "application/pdf",
		Size:        9,
		UserID:      "user-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ocr service unreachable", doc.Extraction.Error)
	assert.Empty(t, doc.ExtractedText)
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	db, _ := newTxDB(t)
	svc := NewDocumentService(db, new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository), nil, nil, nil, stubScorer{})

	_, err := svc.Upload(context.Background(), UploadInput{FileName: "plan.pdf"})
	assert.ErrorIs(t, err, ErrReaderNil)

	_, err = svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("x"),
		FileName:    "plan.exe",
		ContentType: "application/octet-stream",
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("x"),
		FileName:    "plan.pdf",
		ContentType: "application/pdf",
		Size:        maxUploadSize + 1,
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDocumentService_Upload_RollsBackStorageOnDBFailure(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectRollback()

	store := new(storeMocks.MockStorage)
	docs := new(repoMocks.MockDocumentRepository)

	var storedKey string
	store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { storedKey = args.String(1) }).
		Return(storage.ObjectInfo{}, nil)
	docs.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))
	store.On("Delete", ctx, mock.MatchedBy(func(key string) bool { return key == storedKey })).Return(nil)

	svc := NewDocumentService(db, store, docs, nil, nil, nil, stubScorer{})
	_, err := svc.Upload(ctx, UploadInput{
		Reader:      strings.NewReader("plan data"),
		FileName:    "plan.pdf",
		ContentType: "application/pdf",
		Size:        9,
		UserID:      "user-1",
	})

	assert.ErrorContains(t, err, "save document")
	store.AssertCalled(t, "Delete", ctx, mock.Anything)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestDocumentService_CheckCompliance_CompliantApprovesApplication(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	docs := new(repoMocks.MockDocumentRepository)
	apps := new(repoMocks.MockApplicationRepository)
	wf := new(repoMocks.MockWorkflowRepository)

	result := &model.ComplianceResult{Compliant: true, CompliancePercentage: 92.5}
	docs.On("FindByID", ctx, "doc-1").
		Return(&model.Document{ID: "doc-1", ApplicationID: "app-1", ExtractedText: "plan text"}, nil)
	docs.On("UpdateCompliance", ctx, "doc-1", result).Return(nil)
	docs.On("UpdateStatus", ctx, "doc-1", model.DocumentApproved).Return(nil)
	// Current stage is not a document-verification stage, so only the
	// application status changes.
	apps.On("FindByID", ctx, "app-1").
		Return(&model.Application{ID: "app-1", Status: model.ApplicationPending, CurrentStageID: "stage-1"}, nil)
	apps.On("UpdateStatus", ctx, "app-1", model.ApplicationApproved).Return(nil)
	wf.On("ListStages", ctx).Return(testStages(), nil)

	svc := NewDocumentService(db, new(storeMocks.MockStorage), docs, apps, wf, nil, stubScorer{res: result})
	res, err := svc.CheckCompliance(ctx, "doc-1")

	assert.NoError(t, err)
	assert.True(t, res.Compliant)
	wf.AssertNotCalled(t, "SeedRequirementCompletions", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbm.ExpectationsWereMet())
	docs.AssertExpectations(t)
	apps.AssertExpectations(t)
}

func TestDocumentService_CheckCompliance_VerificationStageCompletesRequirements(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	docs := new(repoMocks.MockDocumentRepository)
	apps := new(repoMocks.MockApplicationRepository)
	wf := new(repoMocks.MockWorkflowRepository)

	result := &model.ComplianceResult{Compliant: true, CompliancePercentage: 85}
	docs.On("FindByID", ctx, "doc-1").
		Return(&model.Document{ID: "doc-1", ApplicationID: "app-1", ExtractedText: "plan text"}, nil)
	docs.On("UpdateCompliance", ctx, "doc-1", result).Return(nil)
	docs.On("UpdateStatus", ctx, "doc-1", model.DocumentApproved).Return(nil)
	apps.On("FindByID", ctx, "app-1").
		Return(&model.Application{ID: "app-1", Status: model.ApplicationSubmitted, CurrentStageID: "stage-2"}, nil)
	apps.On("UpdateStatus", ctx, "app-1", model.ApplicationApproved).Return(nil)
	wf.On("ListStages", ctx).Return(testStages(), nil)
	wf.On("SeedRequirementCompletions", ctx, "app-1", "stage-2").Return(nil)
	wf.On("ListRequirementsByStage", ctx, "stage-2").
		Return([]model.StageRequirement{
			{ID: "req-doc", Type: "document", Name: "Plan documents uploaded"},
			{ID: "req-insp", Type: "inspection", Name: "Site visit"},
		}, nil)
	wf.On("UpdateRequirementStatus", ctx, "app-1", "req-doc", model.RequirementCompleted, "", "",
		"Automatically marked as completed after successful compliance check").
		Return(&model.RequirementCompletion{Status: model.RequirementCompleted}, nil)
	// The inspection requirement keeps the stage open.
	wf.On("CountMandatory", ctx, "app-1", "stage-2").
		Return(&model.StageCompletion{IsComplete: false, TotalMandatory: 2, CompletedMandatory: 1}, nil)

	svc := NewDocumentService(db, new(storeMocks.MockStorage), docs, apps, wf, nil, stubScorer{res: result})
	res, err := svc.CheckCompliance(ctx, "doc-1")

	assert.NoError(t, err)
	assert.True(t, res.Compliant)
	wf.AssertNotCalled(t, "UpdateRequirementStatus", ctx, "app-1", "req-insp",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbm.ExpectationsWereMet())
	wf.AssertExpectations(t)
}

func TestDocumentService_CheckCompliance_NonCompliantLeavesStatus(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	docs := new(repoMocks.MockDocumentRepository)

	result := &model.ComplianceResult{Compliant: false, CompliancePercentage: 40}
	docs.On("FindByID", ctx, "doc-1").
		Return(&model.Document{ID: "doc-1", ApplicationID: "app-1", ExtractedText: "short plan"}, nil)
	docs.On("UpdateCompliance", ctx, "doc-1", result).Return(nil)

	svc := NewDocumentService(db, new(storeMocks.MockStorage), docs, new(repoMocks.MockApplicationRepository), new(repoMocks.MockWorkflowRepository), nil, stubScorer{res: result})
	res, err := svc.CheckCompliance(ctx, "doc-1")

	assert.NoError(t, err)
	assert.False(t, res.Compliant)
	docs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()
	db, _ := newTxDB(t)

	docs := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)
	docs.On("FindByID", ctx, "doc-1").
		Return(&model.Document{ID: "doc-1", StoragePath: "documents/abc.pdf"}, nil)
	store.On("PresignGet", ctx, "documents/abc.pdf", downloadExpiry).
		Return("https://minio.local/documents/abc.pdf?sig=x", nil)

	svc := NewDocumentService(db, store, docs, nil, nil, nil, stubScorer{})
	url, err := svc.Download(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Contains(t, url, "documents/abc.pdf")
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	db, _ := newTxDB(t)

	docs := new(repoMocks.MockDocumentRepository)
	store := new(storeMocks.MockStorage)
	docs.On("FindByID", ctx, "doc-1").
		Return(&model.Document{ID: "doc-1", StoragePath: "documents/abc.pdf"}, nil)
	store.On("Delete", ctx, "documents/abc.pdf").Return(nil)
	docs.On("Delete", ctx, "doc-1").Return(nil)

	svc := NewDocumentService(db, store, docs, nil, nil, nil, stubScorer{})
	err := svc.Delete(ctx, "doc-1")

	assert.NoError(t, err)
	docs.AssertExpectations(t)
	store.AssertExpectations(t)
}
