package mocks

import (
	"context"

	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Create(ctx context.Context, in service.ServiceInput) (*model.Service, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id string, in service.ServiceInput) (*model.Service, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockCatalogService) GetBySlug(ctx context.Context, slug string) (*service.ServiceDetail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ServiceDetail), args.Error(1)
}

func (m *MockCatalogService) List(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) GetContent(ctx context.Context, id string) (*repository.ServiceContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ServiceContent), args.Error(1)
}

func (m *MockCatalogService) ReplaceContent(ctx context.Context, id string, in service.ServiceContentInput) (*repository.ServiceContent, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ServiceContent), args.Error(1)
}

func (m *MockCatalogService) ListProjects(ctx context.Context, f service.ProjectListFilter) (*service.ProjectListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectListResult), args.Error(1)
}
