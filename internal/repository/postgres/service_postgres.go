package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"hammercms/internal/model"
	"hammercms/internal/repository"
)

// ServicePostgres is a PostgreSQL implementation of repository.ServiceRepository.
type ServicePostgres struct {
	db *sql.DB
}

// NewServicePostgres creates a new ServicePostgres repository.
func NewServicePostgres(db *sql.DB) *ServicePostgres {
	return &ServicePostgres{db: db}
}

var _ repository.ServiceRepository = (*ServicePostgres)(nil)

const serviceColumns = `id, title, slug, eyebrow, hero_headline, hero_subcopy, hero_media_url, stat_projects, stat_years, stat_specialists, seo_meta_title, seo_meta_description, created_at, updated_at`

func scanService(row rowScanner) (*model.Service, error) {
	var s model.Service
	if err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Slug,
		&s.Eyebrow,
		&s.HeroHeadline,
		&s.HeroSubcopy,
		&s.HeroMediaURL,
		&s.StatProjects,
		&s.StatYears,
		&s.StatSpecialists,
		&s.SEOMetaTitle,
		&s.SEOMetaDesc,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new service row and returns the stored record.
func (r *ServicePostgres) Create(ctx context.Context, svc *model.Service) (*model.Service, error) {
	q := `
		INSERT INTO services (id, title, slug, eyebrow, hero_headline, hero_subcopy, hero_media_url, stat_projects, stat_years, stat_specialists, seo_meta_title, seo_meta_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + serviceColumns
	row := r.db.QueryRowContext(ctx, q,
		svc.ID,
		svc.Title,
		svc.Slug,
		svc.Eyebrow,
		svc.HeroHeadline,
		svc.HeroSubcopy,
		svc.HeroMediaURL,
		svc.StatProjects,
		svc.StatYears,
		svc.StatSpecialists,
		svc.SEOMetaTitle,
		svc.SEOMetaDesc,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	return scanService(row)
}

// Update rewrites the mutable columns; the slug is immutable.
func (r *ServicePostgres) Update(ctx context.Context, svc *model.Service) (*model.Service, error) {
	q := `
		UPDATE services
		SET title = $2, eyebrow = $3, hero_headline = $4, hero_subcopy = $5, hero_media_url = $6, stat_projects = $7, stat_years = $8, stat_specialists = $9, seo_meta_title = $10, seo_meta_description = $11, updated_at = $12
		WHERE id = $1
		RETURNING ` + serviceColumns
	row := r.db.QueryRowContext(ctx, q,
		svc.ID,
		svc.Title,
		svc.Eyebrow,
		svc.HeroHeadline,
		svc.HeroSubcopy,
		svc.HeroMediaURL,
		svc.StatProjects,
		svc.StatYears,
		svc.StatSpecialists,
		svc.SEOMetaTitle,
		svc.SEOMetaDesc,
		svc.UpdatedAt,
	)
	return scanService(row)
}

// FindByID fetches a single service by its ID.
func (r *ServicePostgres) FindByID(ctx context.Context, id string) (*model.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanService(r.db.QueryRowContext(ctx, q, id))
}

// FindBySlug fetches a single service by its slug.
func (r *ServicePostgres) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services WHERE slug = $1`
	return scanService(r.db.QueryRowContext(ctx, q, slug))
}

// List returns all services ordered by title.
func (r *ServicePostgres) List(ctx context.Context) ([]model.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a service by ID; insights and gallery images cascade.
func (r *ServicePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM services WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// SlugExists is the allocator's existence predicate for the service collection.
func (r *ServicePostgres) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM services WHERE slug = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListProjectImages returns a page of gallery images matching the filter.
func (r *ServicePostgres) ListProjectImages(ctx context.Context, f repository.ProjectImageFilter) (*repository.PageResult[model.ProjectImage], error) {
	var (
		whereSQL string
		args     []any
	)
	switch {
	case f.ServiceID != "":
		whereSQL = ` WHERE service_id = $1`
		args = append(args, f.ServiceID)
	case f.ServiceSlug != "":
		whereSQL = ` WHERE service_id = (SELECT id FROM services WHERE slug = $1)`
		args = append(args, f.ServiceSlug)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_images`+whereSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	const cols = `id, service_id, thumb_url, full_url, caption, sort_order, created_at`
	order := ` ORDER BY sort_order, id`
	if whereSQL == "" {
		order = ` ORDER BY service_id, sort_order, id`
	}
	q := `SELECT ` + cols + ` FROM project_images` + whereSQL + order +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Page.Limit, f.Page.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProjectImage, 0)
	for rows.Next() {
		var img model.ProjectImage
		if err := rows.Scan(
			&img.ID,
			&img.ServiceID,
			&img.ThumbURL,
			&img.FullURL,
			&img.Caption,
			&img.SortOrder,
			&img.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ProjectImage]{Items: items, Total: total}, nil
}
