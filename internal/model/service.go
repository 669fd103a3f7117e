package model

// Package model contains domain models/data structures.
// Pure data shared across layers; no database tags, no business logic.

import "time"

// Service is one division page of the company site (landscape, interior,
// joinery, marble, facility management).
type Service struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Eyebrow         string    `json:"eyebrow"`
	HeroHeadline    string    `json:"hero_headline"`
	HeroSubcopy     string    `json:"hero_subcopy"`
	HeroMediaURL    string    `json:"hero_media_url"`
	StatProjects    string    `json:"stat_projects"`
	StatYears       string    `json:"stat_years"`
	StatSpecialists string    `json:"stat_specialists"`
	SEOMetaTitle    string    `json:"seo_meta_title"`
	SEOMetaDesc     string    `json:"seo_meta_description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceFeature is one icon bullet in the division hero strip.
type ServiceFeature struct {
	ID        string `json:"id"`
	ServiceID string `json:"service_id"`
	IconClass string `json:"icon_class"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// ServiceCapability is one card in the "what we do" grid.
type ServiceCapability struct {
	ID        string `json:"id"`
	ServiceID string `json:"service_id"`
	Title     string `json:"title"`
	Blurb     string `json:"blurb"`
	IconClass string `json:"icon_class"`
	SortOrder int    `json:"sort_order"`
}

// ServiceProcessStep is one numbered step of the division's delivery process.
type ServiceProcessStep struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	StepNo      int    `json:"step_no"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// ServiceFAQ is one question/answer pair on the division page.
type ServiceFAQ struct {
	ID        string `json:"id"`
	ServiceID string `json:"service_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sort_order"`
}

// ServiceTestimonial is one client quote on the division page.
type ServiceTestimonial struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	Author      string `json:"author"`
	RoleCompany string `json:"role_company"`
	Quote       string `json:"quote"`
	HeadshotURL string `json:"headshot_url"`
	SortOrder   int    `json:"sort_order"`
}

// ProjectImage is one gallery entry attached to a service division.
type ProjectImage struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	ThumbURL  string    `json:"thumb_url"`
	FullURL   string    `json:"full_url"`
	Caption   string    `json:"caption"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
