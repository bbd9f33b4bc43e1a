package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
	"permitflow/internal/repository"
	repoMocks "permitflow/internal/repository/mocks"
)

func TestApplicationService_Create_SubmittedEntersFirstStage(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	apps := new(repoMocks.MockApplicationRepository)
	wf := new(repoMocks.MockWorkflowRepository)

	apps.On("Create", ctx, mock.MatchedBy(func(a *model.Application) bool {
		return a.UserID == "user-1" && a.Status == model.ApplicationSubmitted && a.ID != ""
	})).Return(&model.Application{ID: "app-1", UserID: "user-1", Status: model.ApplicationSubmitted}, nil)
	wf.On("ListStages", ctx).Return(testStages(), nil)
	apps.On("SetCurrentStage", ctx, "app-1", "stage-1").Return(nil)
	wf.On("UpsertProgress", ctx, "app-1", "stage-1").
		Return(&model.ApplicationProgress{StageID: "stage-1"}, nil)
	wf.On("SeedRequirementCompletions", ctx, "app-1", "stage-1").Return(nil)

	svc := NewApplicationService(db, apps, wf)
	created, err := svc.Create(ctx, &model.Application{
		UserID:      "user-1",
		Status:      model.ApplicationSubmitted,
		StandNumber: "1234",
	})

	assert.NoError(t, err)
	assert.Equal(t, "stage-1", created.CurrentStageID)
	assert.NoError(t, dbm.ExpectationsWereMet())
	apps.AssertExpectations(t)
	wf.AssertExpectations(t)
}

func TestApplicationService_Create_PendingStaysUnstaged(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	apps := new(repoMocks.MockApplicationRepository)
	wf := new(repoMocks.MockWorkflowRepository)

	apps.On("Create", ctx, mock.Anything).
		Return(&model.Application{ID: "app-1", UserID: "user-1", Status: model.ApplicationPending}, nil)

	svc := NewApplicationService(db, apps, wf)
	created, err := svc.Create(ctx, &model.Application{UserID: "user-1"})

	assert.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, created.Status)
	assert.Empty(t, created.CurrentStageID)
	wf.AssertNotCalled(t, "ListStages", mock.Anything)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestApplicationService_Create_Validation(t *testing.T) {
	db, _ := newTxDB(t)
	svc := NewApplicationService(db, new(repoMocks.MockApplicationRepository), new(repoMocks.MockWorkflowRepository))

	_, err := svc.Create(context.Background(), &model.Application{})
	assert.ErrorIs(t, err, ErrUserIDRequired)

	_, err = svc.Create(context.Background(), &model.Application{UserID: "user-1", Status: model.ApplicationApproved})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectCommit()

	apps := new(repoMocks.MockApplicationRepository)
	wf := new(repoMocks.MockWorkflowRepository)

	apps.On("FindByID", ctx, "app-1").
		Return(&model.Application{ID: "app-1", UserID: "user-1", Status: model.ApplicationPending}, nil)
	apps.On("UpdateStatus", ctx, "app-1", model.ApplicationSubmitted).Return(nil)
	wf.On("ListStages", ctx).Return(testStages(), nil)
	apps.On("SetCurrentStage", ctx, "app-1", "stage-1").Return(nil)
	wf.On("UpsertProgress", ctx, "app-1", "stage-1").
		Return(&model.ApplicationProgress{StageID: "stage-1"}, nil)
	wf.On("SeedRequirementCompletions", ctx, "app-1", "stage-1").Return(nil)

	svc := NewApplicationService(db, apps, wf)
	app, err := svc.Submit(ctx, "app-1")

	assert.NoError(t, err)
	assert.Equal(t, model.ApplicationSubmitted, app.Status)
	assert.Equal(t, "stage-1", app.CurrentStageID)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestApplicationService_Submit_OnlyPending(t *testing.T) {
	ctx := context.Background()
	db, dbm := newTxDB(t)
	dbm.ExpectBegin()
	dbm.ExpectRollback()

	apps := new(repoMocks.MockApplicationRepository)
	apps.On("FindByID", ctx, "app-1").
		Return(&model.Application{ID: "app-1", Status: model.ApplicationSubmitted}, nil)

	svc := NewApplicationService(db, apps, new(repoMocks.MockWorkflowRepository))
	_, err := svc.Submit(ctx, "app-1")

	assert.ErrorIs(t, err, ErrNotSubmittable)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestApplicationService_ListByUser_ClampsPaging(t *testing.T) {
	ctx := context.Background()
	db, _ := newTxDB(t)

	apps := new(repoMocks.MockApplicationRepository)
	apps.On("ListByUser", ctx, "user-1", repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.ApplicationSummary]{
			Items: []model.ApplicationSummary{{CurrentStageName: "Application Submission"}},
			Total: 1,
		}, nil)

	svc := NewApplicationService(db, apps, new(repoMocks.MockWorkflowRepository))
	res, err := svc.ListByUser(ctx, "user-1", 0, -5)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestApplicationService_UpdateStatus_Invalid(t *testing.T) {
	db, _ := newTxDB(t)
	svc := NewApplicationService(db, new(repoMocks.MockApplicationRepository), new(repoMocks.MockWorkflowRepository))

	_, err := svc.UpdateStatus(context.Background(), "app-1", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
