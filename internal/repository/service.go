package repository

import (
	"context"

	"hammercms/internal/model"
)

// ServiceRepository defines data access for service division pages and
// their project gallery images.
type ServiceRepository interface {
	// Create inserts a new service row and returns the stored record.
	Create(ctx context.Context, svc *model.Service) (*model.Service, error)

	// Update rewrites the mutable columns. The slug is immutable.
	Update(ctx context.Context, svc *model.Service) (*model.Service, error)

	// FindByID returns a service by its ID.
	FindByID(ctx context.Context, id string) (*model.Service, error)

	// FindBySlug returns a service by its slug.
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)

	// List returns all services ordered by title. The set is small (one
	// row per company division) so it is not paginated.
	List(ctx context.Context) ([]model.Service, error)

	// Delete removes a service by ID; child rows cascade at the schema level.
	Delete(ctx context.Context, id string) error

	// SlugExists reports whether any service already holds the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListProjectImages returns a page of gallery images matching the filter.
	ListProjectImages(ctx context.Context, f ProjectImageFilter) (*PageResult[model.ProjectImage], error)

	// LoadContent returns every sub-content section of one division,
	// each ordered by sort_order.
	LoadContent(ctx context.Context, serviceID string) (*ServiceContent, error)

	// ReplaceContent rewrites all sub-content sections of one division in
	// a single transaction. Rows get fresh IDs; the old ones are dropped.
	ReplaceContent(ctx context.Context, serviceID string, content *ServiceContent) error
}

// ServiceContent bundles the ordered sub-content sections of one division
// page: hero features, capability cards, process steps, FAQs and
// testimonials.
type ServiceContent struct {
	Features     []model.ServiceFeature     `json:"features"`
	Capabilities []model.ServiceCapability  `json:"capabilities"`
	ProcessSteps []model.ServiceProcessStep `json:"process_steps"`
	FAQs         []model.ServiceFAQ         `json:"faqs"`
	Testimonials []model.ServiceTestimonial `json:"testimonials"`
}

// ProjectImageFilter narrows ListProjectImages results.
type ProjectImageFilter struct {
	// ServiceID limits the gallery to one division when non-empty.
	ServiceID string
	// ServiceSlug limits the gallery to the division carrying the slug.
	// ServiceID takes precedence when both are set.
	ServiceSlug string
	Page        PageQuery
}
