package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
	"permitflow/internal/service"
)

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) ListStages(ctx context.Context) ([]model.Stage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stage), args.Error(1)
}

func (m *MockWorkflowService) GetCurrentStage(ctx context.Context, applicationID string) (*model.Stage, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockWorkflowService) ListProgress(ctx context.Context, applicationID string) ([]model.ApplicationProgress, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApplicationProgress), args.Error(1)
}

func (m *MockWorkflowService) ListRequirements(ctx context.Context, applicationID, stageID string) ([]model.RequirementCompletion, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequirementCompletion), args.Error(1)
}

func (m *MockWorkflowService) EnterStage(ctx context.Context, applicationID, stageID string) (*model.ApplicationProgress, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApplicationProgress), args.Error(1)
}

func (m *MockWorkflowService) EvaluateStageCompletion(ctx context.Context, applicationID, stageID string) (*model.StageCompletion, error) {
	args := m.Called(ctx, applicationID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageCompletion), args.Error(1)
}

func (m *MockWorkflowService) UpdateRequirementStatus(ctx context.Context, in service.UpdateRequirementInput) (*service.RequirementUpdateResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RequirementUpdateResult), args.Error(1)
}

func (m *MockWorkflowService) OnRequirementChanged(ctx context.Context, applicationID, requirementID string) (*service.StageTransition, error) {
	args := m.Called(ctx, applicationID, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StageTransition), args.Error(1)
}

func (m *MockWorkflowService) MoveToNextStage(ctx context.Context, applicationID, completedBy, notes string) (*service.StageTransition, error) {
	args := m.Called(ctx, applicationID, completedBy, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StageTransition), args.Error(1)
}
