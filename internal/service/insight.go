package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hammercms/internal/blocks"
	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/slug"
)

const relatedInsightLimit = 4

// InsightInput carries the editable fields of an article. The slug is not
// part of the input: it is allocated from the title on create and immutable
// afterwards.
type InsightInput struct {
	ServiceID     string          `json:"service_id"`
	Title         string          `json:"title"`
	Tag           string          `json:"tag"`
	Excerpt       string          `json:"excerpt"`
	CoverImageURL string          `json:"cover_image_url"`
	Body          blocks.Document `json:"body"`
	ReadMinutes   int             `json:"read_minutes"`
}

// InsightImport is the payload for importing a legacy HTML article.
type InsightImport struct {
	ServiceID     string `json:"service_id"`
	Title         string `json:"title"`
	Tag           string `json:"tag"`
	Excerpt       string `json:"excerpt"`
	CoverImageURL string `json:"cover_image_url"`
	HTML          string `json:"html"`
	ReadMinutes   int    `json:"read_minutes"`
}

// InsightDetail is a single article plus its related reading list. BodyHTML
// is the stored block document rendered to markup, so page templates can
// embed it without knowing the block vocabulary.
type InsightDetail struct {
	Insight  model.Insight   `json:"insight"`
	BodyHTML string          `json:"body_html"`
	Related  []model.Insight `json:"related"`
}

// InsightListResult is the service-level DTO for paginated articles.
type InsightListResult struct {
	Items []model.Insight `json:"data"`
	Total int             `json:"total"`
}

// InsightListFilter narrows List results at the use-case level. Public
// callers filter by ServiceSlug; the dashboard filters by ServiceID.
type InsightListFilter struct {
	ServiceID     string
	ServiceSlug   string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// InsightService defines the use cases for insight articles.
type InsightService interface {
	// Create allocates a slug from the title and stores a new draft.
	Create(ctx context.Context, in InsightInput) (*model.Insight, error)

	// ImportHTML converts legacy HTML into block form, then creates a draft.
	ImportHTML(ctx context.Context, in InsightImport) (*model.Insight, error)

	// Update rewrites the editable fields. The slug never changes.
	Update(ctx context.Context, id string, in InsightInput) (*model.Insight, error)

	// Get returns an article by ID, drafts included.
	Get(ctx context.Context, id string) (*model.Insight, error)

	// GetPublishedBySlug returns a live article plus related reading from
	// the same division. Drafts and future-dated posts are not found.
	GetPublishedBySlug(ctx context.Context, slugValue string) (*InsightDetail, error)

	// List returns a page of articles.
	List(ctx context.Context, f InsightListFilter) (*InsightListResult, error)

	// Delete removes an article by ID.
	Delete(ctx context.Context, id string) error

	// SetPublished flips the published flag. Publishing stamps the current
	// time if the article was never published before; unpublishing keeps
	// the original timestamp so republishing preserves ordering.
	SetPublished(ctx context.Context, id string, published bool) (*model.Insight, error)
}

type insightService struct {
	repo  repository.InsightRepository
	slugs slug.Allocator
	now   func() time.Time
}

// NewInsightService constructs a new InsightService.
func NewInsightService(repo repository.InsightRepository) InsightService {
	return &insightService{
		repo:  repo,
		slugs: slug.Allocator{},
		now:   time.Now,
	}
}

func (s *insightService) Create(ctx context.Context, in InsightInput) (*model.Insight, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	allocated, err := s.slugs.Allocate(ctx, in.Title, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ins := &model.Insight{
		ID:            uuid.New().String(),
		ServiceID:     in.ServiceID,
		Title:         in.Title,
		Slug:          allocated,
		Tag:           in.Tag,
		Excerpt:       in.Excerpt,
		CoverImageURL: in.CoverImageURL,
		Body:          in.Body,
		ReadMinutes:   in.ReadMinutes,
		Published:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.repo.Create(ctx, ins)
}

func (s *insightService) ImportHTML(ctx context.Context, in InsightImport) (*model.Insight, error) {
	return s.Create(ctx, InsightInput{
		ServiceID:     in.ServiceID,
		Title:         in.Title,
		Tag:           in.Tag,
		Excerpt:       in.Excerpt,
		CoverImageURL: in.CoverImageURL,
		Body:          blocks.Convert(in.HTML),
		ReadMinutes:   in.ReadMinutes,
	})
}

func (s *insightService) Update(ctx context.Context, id string, in InsightInput) (*model.Insight, error) {
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

	current.ServiceID = in.ServiceID
	current.Title = in.Title
	current.Tag = in.Tag
	current.Excerpt = in.Excerpt
	current.CoverImageURL = in.CoverImageURL
	current.Body = in.Body
	current.ReadMinutes = in.ReadMinutes
	current.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, current)
}

func (s *insightService) Get(ctx context.Context, id string) (*model.Insight, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ins, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ins, nil
}

func (s *insightService) GetPublishedBySlug(ctx context.Context, slugValue string) (*InsightDetail, error) {
	if slugValue == "" {
		return nil, ErrSlugRequired
	}
	ins, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isLive(ins, s.now().UTC()) {
		return nil, ErrNotFound
	}

	related, err := s.repo.List(ctx, repository.InsightFilter{
		ServiceID:     ins.ServiceID,
		PublishedOnly: true,
		ExcludeID:     ins.ID,
		Page:          repository.PageQuery{Limit: relatedInsightLimit},
	})
	if err != nil {
		return nil, err
	}
	return &InsightDetail{
		Insight:  *ins,
		BodyHTML: blocks.Render(ins.Body),
		Related:  related.Items,
	}, nil
}

func (s *insightService) List(ctx context.Context, f InsightListFilter) (*InsightListResult, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	res, err := s.repo.List(ctx, repository.InsightFilter{
		ServiceID:     f.ServiceID,
		ServiceSlug:   f.ServiceSlug,
		PublishedOnly: f.PublishedOnly,
		Page:          repository.PageQuery{Limit: f.Limit, Offset: f.Offset},
	})
	if err != nil {
		return nil, err
	}
	return &InsightListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *insightService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

func (s *insightService) SetPublished(ctx context.Context, id string, published bool) (*model.Insight, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	publishedAt := current.PublishedAt
	if published && publishedAt == nil {
		now := s.now().UTC()
		publishedAt = &now
	}
	if err := s.repo.SetPublished(ctx, id, published, publishedAt); err != nil {
		return nil, err
	}
	current.Published = published
	current.PublishedAt = publishedAt
	return current, nil
}

// isLive reports whether an article should be visible on the public site.
func isLive(ins *model.Insight, now time.Time) bool {
	return ins.Published && ins.PublishedAt != nil && !ins.PublishedAt.After(now)
}
