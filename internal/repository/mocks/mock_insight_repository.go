package mocks

import (
	"context"
	"time"

	"hammercms/internal/model"
	"hammercms/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) Create(ctx context.Context, ins *model.Insight) (*model.Insight, error) {
	args := m.Called(ctx, ins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightRepository) Update(ctx context.Context, ins *model.Insight) (*model.Insight, error) {
	args := m.Called(ctx, ins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightRepository) FindByID(ctx context.Context, id string) (*model.Insight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightRepository) FindBySlug(ctx context.Context, slug string) (*model.Insight, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Insight), args.Error(1)
}

func (m *MockInsightRepository) List(ctx context.Context, f repository.InsightFilter) (*repository.PageResult[model.Insight], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Insight]), args.Error(1)
}

func (m *MockInsightRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInsightRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockInsightRepository) SetPublished(ctx context.Context, id string, published bool, publishedAt *time.Time) error {
	args := m.Called(ctx, id, published, publishedAt)
	return args.Error(0)
}
