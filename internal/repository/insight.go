package repository

import (
	"context"
	"time"

	"hammercms/internal/model"
)

// InsightRepository defines data access for insight articles using SQL
// queries only. No business logic here — strictly persistence operations.
type InsightRepository interface {
	// Create inserts a new insight row. The caller provides ID, slug and
	// timestamps; a unique-constraint violation on the slug column is
	// surfaced unchanged so the caller can retry allocation.
	Create(ctx context.Context, ins *model.Insight) (*model.Insight, error)

	// Update rewrites the mutable columns of an insight. The slug column
	// is never touched; slugs are immutable after allocation.
	Update(ctx context.Context, ins *model.Insight) (*model.Insight, error)

	// FindByID returns an insight by its ID.
	FindByID(ctx context.Context, id string) (*model.Insight, error)

	// FindBySlug returns an insight by its slug.
	FindBySlug(ctx context.Context, slug string) (*model.Insight, error)

	// List returns a page of insights matching the filter plus a total count.
	List(ctx context.Context, f InsightFilter) (*PageResult[model.Insight], error)

	// Delete removes an insight by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// SlugExists reports whether any insight already holds the slug. Used
	// as the allocator's existence predicate.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// SetPublished flips the published flag; publishedAt is set when
	// publishing and cleared when unpublishing.
	SetPublished(ctx context.Context, id string, published bool, publishedAt *time.Time) error
}

// InsightFilter narrows List results.
type InsightFilter struct {
	// ServiceID limits results to one division when non-empty.
	ServiceID string
	// ServiceSlug limits results to the division carrying the slug. Public
	// listings filter by slug; ServiceID takes precedence when both are set.
	ServiceSlug string
	// PublishedOnly hides drafts and future-dated posts.
	PublishedOnly bool
	// ExcludeID drops one article, for "related posts" queries.
	ExcludeID string
	Page      PageQuery
}
