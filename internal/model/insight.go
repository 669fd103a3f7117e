package model

import (
	"time"

	"hammercms/internal/blocks"
)

// Insight is a blog-style article scoped to a service division. The body is
// a structured block document; the slug is allocated once at creation and
// never changes, even if the title does.
type Insight struct {
	ID            string          `json:"id"`
	ServiceID     string          `json:"service_id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Tag           string          `json:"tag"`
	Excerpt       string          `json:"excerpt"`
	CoverImageURL string          `json:"cover_image_url"`
	Body          blocks.Document `json:"body"`
	ReadMinutes   int             `json:"read_minutes"`
	Published     bool            `json:"published"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
