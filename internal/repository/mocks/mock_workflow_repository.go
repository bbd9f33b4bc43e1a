package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) ListStages(ctx context.Context) ([]model.Stage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stage), args.Error(1)
}

func (m *MockWorkflowRepository) FindStageByName(ctx context.Context, name string) (*model.Stage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockWorkflowRepository) ListRequirementsByStage(ctx context.Context, stageID string) ([]model.StageRequirement, error) {
	args := m.Called(ctx, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StageRequirement), args.Error(1)
}

func (m *MockWorkflowRepository) FindRequirementByID(ctx context.Context, id string) (*model.StageRequirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageRequirement), args.Error(1)
}

func (m *MockWorkflowRepository) UpsertProgress(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApplicationProgress), args.Error(1)
}

func (m *MockWorkflowRepository) CompleteProgress(ctx context.Context, applicationID, stageID, completedBy, notes string) error {
	args := m.Called(ctx, applicationID, stageID, completedBy, notes)
	return args.Error(0)
}

func (m *MockWorkflowRepository) ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApplicationProgress), args.Error(1)
}

func (m *MockWorkflowRepository) SeedRequirementCompletions(ctx context.Context, applicationID, stageID string) error {
	args := m.Called(ctx, applicationID, stageID)
	return args.Error(0)
}

func (m *MockWorkflowRepository) UpdateRequirementStatus(ctx context.Context, applicationID, requirementID, status, verifiedBy, referenceID, notes string) (*model.RequirementCompletion, error) {
	args := m.Called(ctx, applicationID, requirementID, status, verifiedBy, referenceID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequirementCompletion), args.Error(1)
}

func (m *MockWorkflowRepository) ListRequirementCompletions(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequirementCompletion), args.Error(1)
}

func (m *MockWorkflowRepository) CountMandatory(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageCompletion), args.Error(1)
}

func (m *MockWorkflowRepository) WithTx(tx *sql.Tx) repository.WorkflowRepository {
	return m
}
