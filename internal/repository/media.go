package repository

import (
	"context"

	"hammercms/internal/model"
)

// MediaRepository defines data access for media asset metadata. The bytes
// themselves live in object storage; only the descriptive row is here.
type MediaRepository interface {
	// Create inserts a new media asset record.
	Create(ctx context.Context, asset *model.MediaAsset) (*model.MediaAsset, error)

	// FindByID returns a media asset by its ID.
	FindByID(ctx context.Context, id string) (*model.MediaAsset, error)

	// List returns a paginated list of media assets and a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.MediaAsset], error)

	// Delete removes a media asset by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
