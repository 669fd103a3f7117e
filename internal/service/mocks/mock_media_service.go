package mocks

import (
	"context"
	"io"

	"hammercms/internal/model"
	"hammercms/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.MediaAsset, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaAsset), args.Error(1)
}

func (m *MockMediaService) List(ctx context.Context, limit, offset int) (*service.MediaListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaListResult), args.Error(1)
}

func (m *MockMediaService) Get(ctx context.Context, id string) (*model.MediaAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaAsset), args.Error(1)
}

func (m *MockMediaService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
