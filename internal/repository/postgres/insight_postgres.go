package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hammercms/internal/blocks"
	"hammercms/internal/model"
	"hammercms/internal/repository"
)

// InsightPostgres is a PostgreSQL implementation of repository.InsightRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type InsightPostgres struct {
	db *sql.DB
}

// NewInsightPostgres creates a new InsightPostgres repository.
func NewInsightPostgres(db *sql.DB) *InsightPostgres {
	return &InsightPostgres{db: db}
}

var _ repository.InsightRepository = (*InsightPostgres)(nil)

const insightColumns = `id, service_id, title, slug, tag, excerpt, cover_image_url, body, read_minutes, published, published_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (*model.Insight, error) {
	var (
		ins  model.Insight
		body []byte
	)
	if err := row.Scan(
		&ins.ID,
		&ins.ServiceID,
		&ins.Title,
		&ins.Slug,
		&ins.Tag,
		&ins.Excerpt,
		&ins.CoverImageURL,
		&body,
		&ins.ReadMinutes,
		&ins.Published,
		&ins.PublishedAt,
		&ins.CreatedAt,
		&ins.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &ins.Body); err != nil {
			return nil, fmt.Errorf("decode body document: %w", err)
		}
	} else {
		ins.Body = blocks.Document{Blocks: []blocks.Block{}}
	}
	return &ins, nil
}

// Create inserts a new insight row and returns the stored record. A slug
// UNIQUE violation comes back as the driver's error, untouched.
func (r *InsightPostgres) Create(ctx context.Context, ins *model.Insight) (*model.Insight, error) {
	body, err := json.Marshal(ins.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body document: %w", err)
	}

	q := `
		INSERT INTO insights (id, service_id, title, slug, tag, excerpt, cover_image_url, body, read_minutes, published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + insightColumns
	row := r.db.QueryRowContext(ctx, q,
		ins.ID,
		ins.ServiceID,
		ins.Title,
		ins.Slug,
		ins.Tag,
		ins.Excerpt,
		ins.CoverImageURL,
		body,
		ins.ReadMinutes,
		ins.Published,
		ins.PublishedAt,
		ins.CreatedAt,
		ins.UpdatedAt,
	)
	return scanInsight(row)
}

// Update rewrites the mutable columns. The slug column is deliberately
// absent from the SET list.
func (r *InsightPostgres) Update(ctx context.Context, ins *model.Insight) (*model.Insight, error) {
	body, err := json.Marshal(ins.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body document: %w", err)
	}

	q := `
		UPDATE insights
		SET service_id = $2, title = $3, tag = $4, excerpt = $5, cover_image_url = $6, body = $7, read_minutes = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + insightColumns
	row := r.db.QueryRowContext(ctx, q,
		ins.ID,
		ins.ServiceID,
		ins.Title,
		ins.Tag,
		ins.Excerpt,
		ins.CoverImageURL,
		body,
		ins.ReadMinutes,
		ins.UpdatedAt,
	)
	return scanInsight(row)
}

// FindByID fetches a single insight by its ID.
func (r *InsightPostgres) FindByID(ctx context.Context, id string) (*model.Insight, error) {
	q := `SELECT ` + insightColumns + ` FROM insights WHERE id = $1`
	return scanInsight(r.db.QueryRowContext(ctx, q, id))
}

// FindBySlug fetches a single insight by its slug.
func (r *InsightPostgres) FindBySlug(ctx context.Context, slug string) (*model.Insight, error) {
	q := `SELECT ` + insightColumns + ` FROM insights WHERE slug = $1`
	return scanInsight(r.db.QueryRowContext(ctx, q, slug))
}

// List returns insights matching the filter using LIMIT/OFFSET pagination
// and a total count.
func (r *InsightPostgres) List(ctx context.Context, f repository.InsightFilter) (*repository.PageResult[model.Insight], error) {
	var (
		where []string
		args  []any
	)
	switch {
	case f.ServiceID != "":
		args = append(args, f.ServiceID)
		where = append(where, fmt.Sprintf("service_id = $%d", len(args)))
	case f.ServiceSlug != "":
		args = append(args, f.ServiceSlug)
		where = append(where, fmt.Sprintf("service_id = (SELECT id FROM services WHERE slug = $%d)", len(args)))
	}
	if f.PublishedOnly {
		where = append(where, "published = TRUE AND published_at <= now()")
	}
	if f.ExcludeID != "" {
		args = append(args, f.ExcludeID)
		where = append(where, fmt.Sprintf("id <> $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM insights"+whereSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := "SELECT " + insightColumns + " FROM insights" + whereSQL +
		fmt.Sprintf(" ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, f.Page.Limit, f.Page.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Insight, 0)
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ins)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Insight]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an insight by ID. It does not return an error if the row does not exist.
func (r *InsightPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM insights WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// SlugExists is the allocator's existence predicate for the insight collection.
func (r *InsightPostgres) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM insights WHERE slug = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetPublished flips the published flag and keeps published_at consistent.
func (r *InsightPostgres) SetPublished(ctx context.Context, id string, published bool, publishedAt *time.Time) error {
	const q = `UPDATE insights SET published = $2, published_at = $3, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, published, publishedAt)
	return err
}
