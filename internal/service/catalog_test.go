package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	repoMocks "hammercms/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/slug"
)

func newCatalogServiceForTest(repo repository.ServiceRepository, insights repository.InsightRepository) *catalogService {
	return &catalogService{
		repo:     repo,
		insights: insights,
		slugs:    slug.Allocator{},
		now:      func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      ServiceInput
		setupMocks func(mRepo *repoMocks.MockServiceRepository)
		wantErr    error
	}{
		{
			name:  "happy path allocates slug from title",
			input: ServiceInput{Title: "Landscape & Gardens"},
			setupMocks: func(mRepo *repoMocks.MockServiceRepository) {
				mRepo.On("SlugExists", ctx, "landscape-gardens").Return(false, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(svc *model.Service) bool {
					return svc.Slug == "landscape-gardens" && svc.ID != ""
				})).Return(&model.Service{ID: "gen-id", Slug: "landscape-gardens"}, nil)
			},
		},
		{
			name:  "collision gets numeric suffix",
			input: ServiceInput{Title: "Interiors"},
			setupMocks: func(mRepo *repoMocks.MockServiceRepository) {
				mRepo.On("SlugExists", ctx, "interiors").Return(true, nil)
				mRepo.On("SlugExists", ctx, "interiors-2").Return(false, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(svc *model.Service) bool {
					return svc.Slug == "interiors-2"
				})).Return(&model.Service{Slug: "interiors-2"}, nil)
			},
		},
		{
			name:       "validation error - missing title",
			input:      ServiceInput{},
			setupMocks: func(mRepo *repoMocks.MockServiceRepository) {},
			wantErr:    ErrTitleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockServiceRepository)
			svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

			tt.setupMocks(mRepo)

			_, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("slug survives a title change", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("FindByID", ctx, "svc-1").Return(&model.Service{
			ID: "svc-1", Title: "Interiors", Slug: "interiors",
		}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(s *model.Service) bool {
			return s.Title == "Interior Fit-Out" && s.Slug == "interiors"
		})).Return(&model.Service{ID: "svc-1", Slug: "interiors"}, nil)

		_, err := svc.Update(ctx, "svc-1", ServiceInput{Title: "Interior Fit-Out"})
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "missing", ServiceInput{Title: "Anything"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("bundles gallery and latest articles", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		mInsights := new(repoMocks.MockInsightRepository)
		svc := newCatalogServiceForTest(mRepo, mInsights)

		mRepo.On("FindBySlug", ctx, "joinery").Return(&model.Service{
			ID: "svc-1", Slug: "joinery",
		}, nil)
		mRepo.On("LoadContent", ctx, "svc-1").Return(&repository.ServiceContent{
			FAQs: []model.ServiceFAQ{{ID: "faq-1", Question: "How long does a fit-out take?"}},
			Testimonials: []model.ServiceTestimonial{
				{ID: "tst-1", Author: "R. Hamad", Quote: "Delivered on time."},
			},
		}, nil)
		mRepo.On("ListProjectImages", ctx, repository.ProjectImageFilter{
			ServiceID: "svc-1",
			Page:      repository.PageQuery{Limit: detailGalleryLimit},
		}).Return(&repository.PageResult[model.ProjectImage]{
			Items: []model.ProjectImage{{ID: "img-1"}, {ID: "img-2"}},
			Total: 2,
		}, nil)
		// The original page teases at most four latest articles.
		mInsights.On("List", ctx, repository.InsightFilter{
			ServiceID:     "svc-1",
			PublishedOnly: true,
			Page:          repository.PageQuery{Limit: 4},
		}).Return(&repository.PageResult[model.Insight]{
			Items: []model.Insight{{ID: "ins-1"}},
			Total: 1,
		}, nil)

		detail, err := svc.GetBySlug(ctx, "joinery")
		assert.NoError(t, err)
		assert.Equal(t, "svc-1", detail.Service.ID)
		assert.Len(t, detail.Content.FAQs, 1)
		assert.Len(t, detail.Content.Testimonials, 1)
		assert.Len(t, detail.Gallery, 2)
		assert.Len(t, detail.LatestInsights, 1)
		mRepo.AssertExpectations(t)
		mInsights.AssertExpectations(t)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("FindBySlug", ctx, "nope").Return(nil, sql.ErrNoRows)

		_, err := svc.GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogService_ReplaceContent(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns fresh ids and the owning division", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("FindByID", ctx, "svc-1").Return(&model.Service{ID: "svc-1"}, nil)
		mRepo.On("ReplaceContent", ctx, "svc-1", mock.MatchedBy(func(content *repository.ServiceContent) bool {
			return len(content.FAQs) == 1 &&
				content.FAQs[0].ID != "" &&
				content.FAQs[0].ID != "stale-id" &&
				content.FAQs[0].ServiceID == "svc-1" &&
				len(content.Features) == 1 &&
				content.Features[0].ServiceID == "svc-1"
		})).Return(nil)

		content, err := svc.ReplaceContent(ctx, "svc-1", ServiceContentInput{
			Features: []model.ServiceFeature{{Label: "Licensed & insured"}},
			FAQs:     []model.ServiceFAQ{{ID: "stale-id", Question: "Do you handle permits?", Answer: "Yes."}},
		})

		assert.NoError(t, err)
		assert.Len(t, content.FAQs, 1)
		assert.Equal(t, "svc-1", content.FAQs[0].ServiceID)
		mRepo.AssertExpectations(t)
	})

	t.Run("unknown division maps to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.ReplaceContent(ctx, "missing", ServiceContentInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogService_GetContent(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockServiceRepository)
	svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

	mRepo.On("FindByID", ctx, "svc-1").Return(&model.Service{ID: "svc-1"}, nil)
	mRepo.On("LoadContent", ctx, "svc-1").Return(&repository.ServiceContent{
		Capabilities: []model.ServiceCapability{{ID: "cap-1", Title: "Custom millwork"}},
	}, nil)

	content, err := svc.GetContent(ctx, "svc-1")
	assert.NoError(t, err)
	assert.Len(t, content.Capabilities, 1)
	mRepo.AssertExpectations(t)
}

func TestCatalogService_ListProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults pagination", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("ListProjectImages", ctx, repository.ProjectImageFilter{
			Page: repository.PageQuery{Limit: 10, Offset: 0},
		}).Return(&repository.PageResult[model.ProjectImage]{
			Items: []model.ProjectImage{{ID: "img-1"}},
			Total: 1,
		}, nil)

		res, err := svc.ListProjects(ctx, ProjectListFilter{Limit: 0, Offset: -1})
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("filters by division slug", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("ListProjectImages", ctx, repository.ProjectImageFilter{
			ServiceSlug: "joinery",
			Page:        repository.PageQuery{Limit: 12, Offset: 0},
		}).Return(&repository.PageResult[model.ProjectImage]{
			Items: []model.ProjectImage{{ID: "img-1"}},
			Total: 1,
		}, nil)

		res, err := svc.ListProjects(ctx, ProjectListFilter{ServiceSlug: "joinery", Limit: 12})
		assert.NoError(t, err)
		assert.Len(t, res.Items, 1)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockServiceRepository)
		svc := newCatalogServiceForTest(mRepo, new(repoMocks.MockInsightRepository))

		mRepo.On("ListProjectImages", ctx, mock.Anything).
			Return(nil, errors.New("db fail"))

		_, err := svc.ListProjects(ctx, ProjectListFilter{ServiceID: "svc-1", Limit: 10})
		assert.Error(t, err)
	})
}
