package model

import "time"

// MediaAsset is the metadata row for an object uploaded to the blob store.
// URL is the public address served to page templates.
type MediaAsset struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
