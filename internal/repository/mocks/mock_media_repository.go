package mocks

import (
	"context"

	"hammercms/internal/model"
	"hammercms/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(ctx context.Context, asset *model.MediaAsset) (*model.MediaAsset, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaAsset), args.Error(1)
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id string) (*model.MediaAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaAsset), args.Error(1)
}

func (m *MockMediaRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.MediaAsset], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.MediaAsset]), args.Error(1)
}

func (m *MockMediaRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
