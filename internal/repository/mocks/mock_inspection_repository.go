package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"permitflow/internal/model"
	"permitflow/internal/repository"
)

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) ListInspectionTypes(ctx context.Context) ([]model.InspectionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionType), args.Error(1)
}

func (m *MockInspectionRepository) ListInspectorLoads(ctx context.Context, inspectionType, date string) ([]model.InspectorLoad, error) {
	args := m.Called(ctx, inspectionType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectorLoad), args.Error(1)
}

func (m *MockInspectionRepository) CreateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) FindScheduleByID(ctx context.Context, id string) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) FindLatestScheduleByStage(ctx context.Context, stageID string) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) ListSchedulesByApplication(ctx context.Context, applicationID string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) ListSchedulesByInspector(ctx context.Context, inspectorID, date string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, inspectorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) ListSchedulesByUser(ctx context.Context, userID string) ([]model.InspectionSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) UpdateSchedule(ctx context.Context, s *model.InspectionSchedule) (*model.InspectionSchedule, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InspectionSchedule), args.Error(1)
}

func (m *MockInspectionRepository) UpdateScheduleStatus(ctx context.Context, id, status, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *MockInspectionRepository) DeleteSchedule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInspectionRepository) WithTx(tx *sql.Tx) repository.InspectionRepository {
	return m
}
