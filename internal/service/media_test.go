package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"hammercms/internal/model"
	repoMocks "hammercms/internal/repository/mocks"
	"hammercms/internal/storage"
	storeMocks "hammercms/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMediaService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader
		wantErr          error
		wantErrMsg       string
		checkRes         func(t *testing.T, asset *model.MediaAsset)
	}{
		{
			name:             "happy path",
			originalFilename: "hero.jpg",
			contentType:      "image/jpeg",
			size:             11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader {
				r := strings.NewReader("fake jpeg..")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "media/") && strings.HasSuffix(key, ".jpg")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "image/jpeg",
					Metadata:    map[string]string{"original-filename": "hero.jpg"},
				}).Return(storage.ObjectInfo{
					Key:         "media/uuid.jpg",
					Size:        11,
					ContentType: "image/jpeg",
				}, nil)
				mStore.On("PublicURL", "media/uuid.jpg").
					Return("https://cdn.example.com/media/uuid.jpg")

				mRepo.On("Create", ctx, mock.MatchedBy(func(asset *model.MediaAsset) bool {
					return asset.StoragePath == "media/uuid.jpg" &&
						asset.URL == "https://cdn.example.com/media/uuid.jpg"
				})).Return(&model.MediaAsset{
					ID:  "gen-id",
					URL: "https://cdn.example.com/media/uuid.jpg",
				}, nil)

				return r
			},
			checkRes: func(t *testing.T, asset *model.MediaAsset) {
				assert.Equal(t, "https://cdn.example.com/media/uuid.jpg", asset.URL)
			},
		},
		{
			name:             "validation error - nil reader",
			originalFilename: "hero.jpg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:             "storage error",
			originalFilename: "hero.jpg",
			size:             4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader {
				r := strings.NewReader("fake")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:             "repository error with successful rollback",
			originalFilename: "hero.jpg",
			size:             4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader {
				r := strings.NewReader("fake")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mStore.On("PublicURL", mock.Anything).Return("")
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:             "repository error with failed rollback",
			originalFilename: "hero.jpg",
			size:             4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository) io.Reader {
				r := strings.NewReader("fake")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mStore.On("PublicURL", mock.Anything).Return("")
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockMediaRepository)
			svc := NewMediaService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)

			asset, err := svc.Upload(ctx, r, tt.originalFilename, tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, asset)
				if tt.checkRes != nil {
					tt.checkRes(t, asset)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestMediaService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockMediaRepository)
		svc := NewMediaService(nil, mRepo)

		mRepo.On("FindByID", ctx, "asset-1").Return(&model.MediaAsset{ID: "asset-1"}, nil)

		asset, err := svc.Get(ctx, "asset-1")
		assert.NoError(t, err)
		assert.Equal(t, "asset-1", asset.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockMediaRepository)
		svc := NewMediaService(nil, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("id required", func(t *testing.T) {
		svc := NewMediaService(nil, new(repoMocks.MockMediaRepository))
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes object then row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockMediaRepository)
		svc := NewMediaService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "asset-1").Return(&model.MediaAsset{
			ID: "asset-1", StoragePath: "media/uuid.jpg",
		}, nil)
		mStore.On("Delete", ctx, "media/uuid.jpg").Return(nil)
		mRepo.On("Delete", ctx, "asset-1").Return(nil)

		err := svc.Delete(ctx, "asset-1")
		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("keeps row when storage delete fails", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockMediaRepository)
		svc := NewMediaService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "asset-1").Return(&model.MediaAsset{
			ID: "asset-1", StoragePath: "media/uuid.jpg",
		}, nil)
		mStore.On("Delete", ctx, "media/uuid.jpg").Return(errors.New("minio down"))

		err := svc.Delete(ctx, "asset-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delete storage")
		mRepo.AssertNotCalled(t, "Delete", ctx, "asset-1")
	})
}
