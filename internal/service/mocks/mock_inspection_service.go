package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
)

type MockInspectionService struct {
	mock.Mock
}

func (m *MockInspectionService) ListTypes(ctx context.Context) ([]model.InspectionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionType), args.Error(1)
}

func (m *MockInspectionService) FindAvailableInspector(ctx context.Context, date, district, inspectionTypeID string) (*model.InspectorLoad, error) {
	args := m.Called(ctx, date, district, inspectionTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectorLoad), args.Error(1)
}

func (m *MockInspectionService) CreateSchedule(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, sched)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) Get(ctx context.Context, id string) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) ListByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) ListByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, inspectorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) ListByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) Update(ctx context.Context, sched *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, sched)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) CompleteInspection(ctx context.Context, scheduleID, inspectorID, comments string) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, scheduleID, inspectorID, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
