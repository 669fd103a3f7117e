package postgres

import (
	"context"
	"database/sql"

	"hammercms/internal/model"
	"hammercms/internal/repository"
)

// MediaPostgres is a PostgreSQL implementation of repository.MediaRepository.
type MediaPostgres struct {
	db *sql.DB
}

// NewMediaPostgres creates a new MediaPostgres repository.
func NewMediaPostgres(db *sql.DB) *MediaPostgres {
	return &MediaPostgres{db: db}
}

var _ repository.MediaRepository = (*MediaPostgres)(nil)

const mediaColumns = `id, filename, storage_path, url, size, content_type, created_at`

func scanMedia(row rowScanner) (*model.MediaAsset, error) {
	var a model.MediaAsset
	if err := row.Scan(
		&a.ID,
		&a.Filename,
		&a.StoragePath,
		&a.URL,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new media asset row and returns the stored record.
func (r *MediaPostgres) Create(ctx context.Context, asset *model.MediaAsset) (*model.MediaAsset, error) {
	q := `
		INSERT INTO media_assets (id, filename, storage_path, url, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + mediaColumns
	row := r.db.QueryRowContext(ctx, q,
		asset.ID,
		asset.Filename,
		asset.StoragePath,
		asset.URL,
		asset.Size,
		asset.ContentType,
		asset.CreatedAt,
	)
	return scanMedia(row)
}

// FindByID fetches a single media asset by its ID.
func (r *MediaPostgres) FindByID(ctx context.Context, id string) (*model.MediaAsset, error) {
	q := `SELECT ` + mediaColumns + ` FROM media_assets WHERE id = $1`
	return scanMedia(r.db.QueryRowContext(ctx, q, id))
}

// List returns media assets using LIMIT/OFFSET pagination and a total count.
func (r *MediaPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.MediaAsset], error) {
	const qCount = `SELECT COUNT(*) FROM media_assets`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + mediaColumns + ` FROM media_assets ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MediaAsset, 0)
	for rows.Next() {
		a, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.MediaAsset]{Items: items, Total: total}, nil
}

// Delete removes a media asset by ID. It does not return an error if the row does not exist.
func (r *MediaPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM media_assets WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
