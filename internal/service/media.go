package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/storage"
)

// MediaListResult is the service-level DTO for paginated media assets.
type MediaListResult struct {
	Items []model.MediaAsset `json:"data"`
	Total int                `json:"total"`
}

// MediaService defines the use cases for uploaded site assets.
type MediaService interface {
	// Upload stores the bytes in object storage, saves metadata to DB, and
	// rolls back storage if the DB save fails.
	// - originalFilename is used only to extract extension; stored filename will be UUID + original extension.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.MediaAsset, error)

	// List returns media assets using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*MediaListResult, error)

	// Get returns a single media asset by its ID.
	Get(ctx context.Context, id string) (*model.MediaAsset, error)

	// Delete removes a media asset by ID from both storage and repository.
	Delete(ctx context.Context, id string) error
}

type mediaService struct {
	store storage.Storage
	repo  repository.MediaRepository
}

// NewMediaService constructs a new MediaService.
func NewMediaService(store storage.Storage, repo repository.MediaRepository) MediaService {
	return &mediaService{store: store, repo: repo}
}

func (s *mediaService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.MediaAsset, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Generate filename using UUID + extension
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("media", genName))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	// Save metadata to database
	asset := &model.MediaAsset{
		ID:          uuid.New().String(),
		Filename:    genName,
		StoragePath: objInfo.Key,
		URL:         s.store.PublicURL(objInfo.Key),
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, asset)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated media assets without exposing repository types.
func (s *mediaService) List(ctx context.Context, limit, offset int) (*MediaListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &MediaListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a media asset by ID.
func (s *mediaService) Get(ctx context.Context, id string) (*model.MediaAsset, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

// Delete removes a media asset from storage, then deletes its record.
func (s *mediaService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Find the asset to get its storage path
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, asset.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Delete DB row (repository ignores missing row errors as per contract)
	return s.repo.Delete(ctx, id)
}
