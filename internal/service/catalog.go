package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/slug"
)

const (
	detailGalleryLimit = 12
	detailInsightLimit = 4
)

// ServiceInput carries the editable fields of a division page.
type ServiceInput struct {
	Title           string `json:"title"`
	Eyebrow         string `json:"eyebrow"`
	HeroHeadline    string `json:"hero_headline"`
	HeroSubcopy     string `json:"hero_subcopy"`
	HeroMediaURL    string `json:"hero_media_url"`
	StatProjects    string `json:"stat_projects"`
	StatYears       string `json:"stat_years"`
	StatSpecialists string `json:"stat_specialists"`
	SEOMetaTitle    string `json:"seo_meta_title"`
	SEOMetaDesc     string `json:"seo_meta_description"`
}

// ServiceContentInput carries the editable sub-content sections of a
// division page. IDs on the rows are ignored; a replace assigns fresh ones.
type ServiceContentInput struct {
	Features     []model.ServiceFeature     `json:"features"`
	Capabilities []model.ServiceCapability  `json:"capabilities"`
	ProcessSteps []model.ServiceProcessStep `json:"process_steps"`
	FAQs         []model.ServiceFAQ         `json:"faqs"`
	Testimonials []model.ServiceTestimonial `json:"testimonials"`
}

// ServiceDetail is everything the public division page needs in one call.
type ServiceDetail struct {
	Service        model.Service             `json:"service"`
	Content        repository.ServiceContent `json:"content"`
	Gallery        []model.ProjectImage      `json:"gallery"`
	LatestInsights []model.Insight           `json:"latest_insights"`
}

// ProjectListResult is the service-level DTO for paginated gallery images.
type ProjectListResult struct {
	Items []model.ProjectImage `json:"data"`
	Total int                  `json:"total"`
}

// ProjectListFilter narrows ListProjects results. Public callers filter by
// ServiceSlug; the dashboard filters by ServiceID.
type ProjectListFilter struct {
	ServiceID   string
	ServiceSlug string
	Limit       int
	Offset      int
}

// CatalogService defines the use cases for division pages and their
// project galleries.
type CatalogService interface {
	// Create allocates a slug from the title and stores a new division page.
	Create(ctx context.Context, in ServiceInput) (*model.Service, error)

	// Update rewrites the editable fields. The slug never changes.
	Update(ctx context.Context, id string, in ServiceInput) (*model.Service, error)

	// Get returns a division page by ID.
	Get(ctx context.Context, id string) (*model.Service, error)

	// GetBySlug returns the public page bundle: the division plus its
	// gallery and latest published articles.
	GetBySlug(ctx context.Context, slugValue string) (*ServiceDetail, error)

	// List returns all division pages.
	List(ctx context.Context) ([]model.Service, error)

	// Delete removes a division page by ID.
	Delete(ctx context.Context, id string) error

	// GetContent returns the sub-content sections of a division page.
	GetContent(ctx context.Context, id string) (*repository.ServiceContent, error)

	// ReplaceContent rewrites all sub-content sections of a division page.
	ReplaceContent(ctx context.Context, id string, in ServiceContentInput) (*repository.ServiceContent, error)

	// ListProjects returns a page of gallery images across all divisions,
	// or one division when the filter names it.
	ListProjects(ctx context.Context, f ProjectListFilter) (*ProjectListResult, error)
}

type catalogService struct {
	repo     repository.ServiceRepository
	insights repository.InsightRepository
	slugs    slug.Allocator
	now      func() time.Time
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(repo repository.ServiceRepository, insights repository.InsightRepository) CatalogService {
	return &catalogService{
		repo:     repo,
		insights: insights,
		slugs:    slug.Allocator{},
		now:      time.Now,
	}
}

func (s *catalogService) Create(ctx context.Context, in ServiceInput) (*model.Service, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	allocated, err := s.slugs.Allocate(ctx, in.Title, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	svc := &model.Service{
		ID:        uuid.New().String(),
		Slug:      allocated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyServiceInput(svc, in)
	return s.repo.Create(ctx, svc)
}

func (s *catalogService) Update(ctx context.Context, id string, in ServiceInput) (*model.Service, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	applyServiceInput(current, in)
	current.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, current)
}

func (s *catalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) GetBySlug(ctx context.Context, slugValue string) (*ServiceDetail, error) {
	if slugValue == "" {
		return nil, ErrSlugRequired
	}
	svc, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content, err := s.repo.LoadContent(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	gallery, err := s.repo.ListProjectImages(ctx, repository.ProjectImageFilter{
		ServiceID: svc.ID,
		Page:      repository.PageQuery{Limit: detailGalleryLimit},
	})
	if err != nil {
		return nil, err
	}
	latest, err := s.insights.List(ctx, repository.InsightFilter{
		ServiceID:     svc.ID,
		PublishedOnly: true,
		Page:          repository.PageQuery{Limit: detailInsightLimit},
	})
	if err != nil {
		return nil, err
	}
	return &ServiceDetail{
		Service:        *svc,
		Content:        *content,
		Gallery:        gallery.Items,
		LatestInsights: latest.Items,
	}, nil
}

func (s *catalogService) GetContent(ctx context.Context, id string) (*repository.ServiceContent, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.LoadContent(ctx, id)
}

func (s *catalogService) ReplaceContent(ctx context.Context, id string, in ServiceContentInput) (*repository.ServiceContent, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content := &repository.ServiceContent{
		Features:     make([]model.ServiceFeature, len(in.Features)),
		Capabilities: make([]model.ServiceCapability, len(in.Capabilities)),
		ProcessSteps: make([]model.ServiceProcessStep, len(in.ProcessSteps)),
		FAQs:         make([]model.ServiceFAQ, len(in.FAQs)),
		Testimonials: make([]model.ServiceTestimonial, len(in.Testimonials)),
	}
	for i, f := range in.Features {
		f.ID = uuid.New().String()
		f.ServiceID = id
		content.Features[i] = f
	}
	for i, c := range in.Capabilities {
		c.ID = uuid.New().String()
		c.ServiceID = id
		content.Capabilities[i] = c
	}
	for i, p := range in.ProcessSteps {
		p.ID = uuid.New().String()
		p.ServiceID = id
		content.ProcessSteps[i] = p
	}
	for i, f := range in.FAQs {
		f.ID = uuid.New().String()
		f.ServiceID = id
		content.FAQs[i] = f
	}
	for i, tm := range in.Testimonials {
		tm.ID = uuid.New().String()
		tm.ServiceID = id
		content.Testimonials[i] = tm
	}

	if err := s.repo.ReplaceContent(ctx, id, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

func (s *catalogService) ListProjects(ctx context.Context, f ProjectListFilter) (*ProjectListResult, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	res, err := s.repo.ListProjectImages(ctx, repository.ProjectImageFilter{
		ServiceID:   f.ServiceID,
		ServiceSlug: f.ServiceSlug,
		Page:        repository.PageQuery{Limit: f.Limit, Offset: f.Offset},
	})
	if err != nil {
		return nil, err
	}
	return &ProjectListResult{Items: res.Items, Total: res.Total}, nil
}

func applyServiceInput(svc *model.Service, in ServiceInput) {
	svc.Title = in.Title
	svc.Eyebrow = in.Eyebrow
	svc.HeroHeadline = in.HeroHeadline
	svc.HeroSubcopy = in.HeroSubcopy
	svc.HeroMediaURL = in.HeroMediaURL
	svc.StatProjects = in.StatProjects
	svc.StatYears = in.StatYears
	svc.StatSpecialists = in.StatSpecialists
	svc.SEOMetaTitle = in.SEOMetaTitle
	svc.SEOMetaDesc = in.SEOMetaDesc
}
