package service

// Package service contains the application use cases. Services orchestrate
// repositories, object storage and outbound email; handlers stay thin.

import "errors"

var (
	ErrIDRequired    = errors.New("id is required")
	ErrSlugRequired  = errors.New("slug is required")
	ErrTitleRequired = errors.New("title is required")
	ErrNotFound      = errors.New("record not found")
	ErrReaderNil     = errors.New("reader is nil")
)
