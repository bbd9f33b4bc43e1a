package mocks

import (
	"context"

	"permitflow/internal/review"

	"github.com/stretchr/testify/mock"
)

type MockReviewer struct {
	mock.Mock
}

func (m *MockReviewer) Review(ctx context.Context, text string) (*review.Findings, error) {
	args := m.Called(ctx, text)
	if f, ok := args.Get(0).(*review.Findings); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
