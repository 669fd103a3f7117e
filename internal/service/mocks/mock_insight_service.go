package mocks

import (
	"context"

	"hammercms/internal/model"
	"hammercms/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockInsightService struct {
	mock.Mock
}

func (m *MockInsightService) Create(ctx context.Context, in service.InsightInput) (*model.Insight, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightService) ImportHTML(ctx context.Context, in service.InsightImport) (*model.Insight, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightService) Update(ctx context.Context, id string, in service.InsightInput) (*model.Insight, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightService) Get(ctx context.Context, id string) (*model.Insight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightService) GetPublishedBySlug(ctx context.Context, slug string) (*service.InsightDetail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InsightDetail), args.Error(1)
}

func (m *MockInsightService) List(ctx context.Context, f service.InsightListFilter) (*service.InsightListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InsightListResult), args.Error(1)
}

func (m *MockInsightService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInsightService) SetPublished(ctx context.Context, id string, published bool) (*model.Insight, error) {
	args := m.Called(ctx, id, published)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}
