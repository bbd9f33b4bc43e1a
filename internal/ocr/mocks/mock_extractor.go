package mocks

import (
	"context"
	"io"

	"permitflow/internal/ocr"

	"github.com/stretchr/testify/mock"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, r io.Reader, fileName, contentType string) (*ocr.Result, error) {
	args := m.Called(ctx, r, fileName, contentType)
	if res, ok := args.Get(0).(*ocr.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
