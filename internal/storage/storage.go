package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations used for library backups.
type FileStorage interface {
	// PutObject uploads data under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, contentType string, data []byte) error

	// GetObject downloads the object. Missing objects return ErrObjectNotFound.
	GetObject(ctx context.Context, objectKey string) ([]byte, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var ErrObjectNotFound = errors.New("object not found in storage")
