package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"permitflow/internal/http/middleware"
	"permitflow/internal/model"
	"permitflow/internal/service"
	serviceMocks "permitflow/internal/service/mocks"
)

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, *serviceMocks.MockApplicationService, *serviceMocks.MockWorkflowService, *serviceMocks.MockInspectionService, *serviceMocks.MockDocumentService) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	appSvc := new(serviceMocks.MockApplicationService)
	wfSvc := new(serviceMocks.MockWorkflowService)
	inspSvc := new(serviceMocks.MockInspectionService)
	docSvc := new(serviceMocks.MockDocumentService)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, db, appSvc, wfSvc, inspSvc, docSvc)
	return app, dbMock, appSvc, wfSvc, inspSvc, docSvc
}

func TestHealthCheck(t *testing.T) {
	app, dbMock, _, _, _, _ := newTestApp(t)

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app, _, _, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateApplication(t *testing.T) {
	app, _, appSvc, _, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		created := &model.Application{ID: uuid.New().String(), UserID: "user-1", Status: model.ApplicationPending}
		appSvc.On("Create", mock.Anything, mock.AnythingOfType("*model.Application")).Return(created, nil).Once()

		body := strings.NewReader(`{"user_id":"user-1","stand_number":"1234"}`)
		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Application
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, created.ID, result.ID)
		appSvc.AssertExpectations(t)
	})

	t.Run("missing user id", func(t *testing.T) {
		appSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrUserIDRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "BAD_REQUEST", res.Error.Code)
		appSvc.AssertExpectations(t)
	})
}

func TestGetApplication(t *testing.T) {
	app, _, appSvc, _, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		appSvc.On("Get", mock.Anything, id).Return(&model.Application{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		appSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		appSvc.On("Get", mock.Anything, id).Return(nil, service.ErrApplicationNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		appSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestListApplications(t *testing.T) {
	app, _, appSvc, _, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		expected := &service.ApplicationListResult{
			Items: []model.ApplicationSummary{{Application: model.Application{ID: uuid.New().String()}}},
			Total: 1,
		}
		appSvc.On("ListByUser", mock.Anything, "user-1", 10, 0).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications?user_id=user-1&limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.ApplicationListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		appSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications?user_id=user-1&limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LIMIT", res.Error.Code)
	})
}

func TestSubmitApplication(t *testing.T) {
	app, _, appSvc, _, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		appSvc.On("Submit", mock.Anything, id).
			Return(&model.Application{ID: id, Status: model.ApplicationSubmitted, CurrentStageID: "stage-1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications/"+id+"/submit", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Application
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.ApplicationSubmitted, result.Status)
		appSvc.AssertExpectations(t)
	})

	t.Run("already submitted", func(t *testing.T) {
		id := uuid.New().String()
		appSvc.On("Submit", mock.Anything, id).Return(nil, service.ErrNotSubmittable).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications/"+id+"/submit", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CONFLICT", res.Error.Code)
		appSvc.AssertExpectations(t)
	})
}

func TestAdvanceApplication(t *testing.T) {
	app, _, _, wfSvc, _, _ := newTestApp(t)
	id := uuid.New().String()

	t.Run("admin role advances", func(t *testing.T) {
		wfSvc.On("MoveToNextStage", mock.Anything, id, "admin-1", "").
			Return(&service.StageTransition{Advanced: true, NextStage: &model.Stage{ID: "stage-2"}}, nil).Once()

		body := strings.NewReader(`{"completed_by":"admin-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/applications/"+id+"/advance", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.RoleHeader, "admin")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.StageTransition
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Advanced)
		wfSvc.AssertExpectations(t)
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		app, _, _, wfSvc, _, _ := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/applications/"+id+"/advance", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		wfSvc.AssertNotCalled(t, "MoveToNextStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no current stage", func(t *testing.T) {
		wfSvc.On("MoveToNextStage", mock.Anything, id, "", "").Return(nil, service.ErrNoCurrentStage).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications/"+id+"/advance", nil)
		req.Header.Set(middleware.RoleHeader, "admin")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		wfSvc.AssertExpectations(t)
	})
}

func TestUpdateRequirement(t *testing.T) {
	app, _, _, wfSvc, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		in := service.UpdateRequirementInput{
			ApplicationID: "app-1",
			RequirementID: "req-1",
			Status:        model.RequirementCompleted,
			VerifiedBy:    "officer-1",
		}
		expected := &service.RequirementUpdateResult{
			Completion: &model.RequirementCompletion{RequirementID: "req-1", Status: model.RequirementCompleted},
			Transition: &service.StageTransition{},
		}
		wfSvc.On("UpdateRequirementStatus", mock.Anything, in).Return(expected, nil).Once()

		body := strings.NewReader(`{"application_id":"app-1","requirement_id":"req-1","status":"completed","verified_by":"officer-1"}`)
		req := httptest.NewRequest(http.MethodPatch, "/requirements", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.RequirementUpdateResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.RequirementCompleted, result.Completion.Status)
		wfSvc.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		wfSvc.On("UpdateRequirementStatus", mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidRequirement).Once()

		body := strings.NewReader(`{"application_id":"app-1","requirement_id":"req-1","status":"bogus"}`)
		req := httptest.NewRequest(http.MethodPatch, "/requirements", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		wfSvc.AssertExpectations(t)
	})
}

func TestGetCurrentStage(t *testing.T) {
	app, _, _, wfSvc, _, _ := newTestApp(t)
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		wfSvc.On("GetCurrentStage", mock.Anything, id).
			Return(&model.Stage{ID: "stage-2", Name: "Document Verification", OrderNumber: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications/"+id+"/current-stage", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Stage
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "stage-2", result.ID)
		wfSvc.AssertExpectations(t)
	})

	t.Run("no current stage", func(t *testing.T) {
		wfSvc.On("GetCurrentStage", mock.Anything, id).Return(nil, service.ErrNoCurrentStage).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications/"+id+"/current-stage", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		wfSvc.AssertExpectations(t)
	})
}

func TestFindAvailableInspector(t *testing.T) {
	app, _, _, _, inspSvc, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		picked := &model.InspectorLoad{
			Inspector:      model.Inspector{ID: "insp-1", Name: "Alice"},
			ScheduledCount: 0,
		}
		inspSvc.On("FindAvailableInspector", mock.Anything, "2026-09-01", "Avondale", "").
			Return(picked, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/inspectors/available?date=2026-09-01&district=Avondale", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.InspectorLoad
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "insp-1", result.ID)
		inspSvc.AssertExpectations(t)
	})

	t.Run("none available", func(t *testing.T) {
		inspSvc.On("FindAvailableInspector", mock.Anything, "2026-09-01", "", "").
			Return(nil, service.ErrNoInspectorAvailable).Once()

		req := httptest.NewRequest(http.MethodGet, "/inspectors/available?date=2026-09-01", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_INSPECTOR_AVAILABLE", res.Error.Code)
		inspSvc.AssertExpectations(t)
	})

	t.Run("missing date", func(t *testing.T) {
		inspSvc.On("FindAvailableInspector", mock.Anything, "", "", "").
			Return(nil, service.ErrScheduledDateRequired).Once()

		req := httptest.NewRequest(http.MethodGet, "/inspectors/available", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		inspSvc.AssertExpectations(t)
	})
}

func TestCompleteInspection(t *testing.T) {
	app, _, _, _, inspSvc, _ := newTestApp(t)
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		inspSvc.On("CompleteInspection", mock.Anything, id, "insp-1", "all good").
			Return(&model.InspectionSchedule{ID: id, Status: model.ScheduleCompleted}, nil).Once()

		body := strings.NewReader(`{"inspector_id":"insp-1","comments":"all good"}`)
		req := httptest.NewRequest(http.MethodPost, "/inspections/"+id+"/complete", body)
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.InspectionSchedule
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.ScheduleCompleted, result.Status)
		inspSvc.AssertExpectations(t)
	})

	t.Run("already completed", func(t *testing.T) {
		inspSvc.On("CompleteInspection", mock.Anything, id, "", "").
			Return(nil, service.ErrAlreadyCompleted).Once()

		req := httptest.NewRequest(http.MethodPost, "/inspections/"+id+"/complete", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		inspSvc.AssertExpectations(t)
	})
}

func TestListInspections(t *testing.T) {
	app, _, _, _, inspSvc, _ := newTestApp(t)

	t.Run("by application", func(t *testing.T) {
		inspSvc.On("ListByApplication", mock.Anything, "app-1").
			Return([]model.InspectionSchedule{{ID: "sched-1"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/inspections?application_id=app-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		inspSvc.AssertExpectations(t)
	})

	t.Run("filter required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/inspections", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILTER_REQUIRED", res.Error.Code)
	})
}

func TestUploadDocument(t *testing.T) {
	app, _, _, _, _, docSvc := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "plan.pdf")
		part.Write([]byte("%PDF-1.4"))
		writer.WriteField("user_id", "user-1")
		writer.WriteField("application_id", "app-1")
		writer.Close()

		expectedDoc := &model.Document{ID: uuid.New().String(), FileName: "plan.pdf"}
		docSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.FileName == "plan.pdf" && in.UserID == "user-1" && in.ApplicationID == "app-1"
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		docSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("file too large", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "huge.pdf")
		part.Write([]byte("%PDF-1.4"))
		writer.WriteField("user_id", "user-1")
		writer.Close()

		docSvc.On("Upload", mock.Anything, mock.Anything).Return(nil, service.ErrFileTooLarge).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_TOO_LARGE", res.Error.Code)
		docSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	app, _, _, _, _, docSvc := newTestApp(t)
	id := uuid.New().String()

	docSvc.On("Download", mock.Anything, id).Return("https://storage.example/doc?sig=abc", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "https://storage.example/doc?sig=abc", body["url"])
	docSvc.AssertExpectations(t)
}

func TestCheckCompliance(t *testing.T) {
	app, _, _, _, _, docSvc := newTestApp(t)
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		docSvc.On("CheckCompliance", mock.Anything, id).
			Return(&model.ComplianceResult{Compliant: true, CompliancePercentage: 92.5}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/compliance", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.ComplianceResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Compliant)
		docSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		docSvc.On("CheckCompliance", mock.Anything, id).Return(nil, service.ErrDocumentNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/compliance", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		docSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app, _, _, _, _, _ := newTestApp(t)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
