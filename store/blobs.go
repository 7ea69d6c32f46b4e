package store

import (
	"context"

	"github.com/mwantia/assetdesk/data"
)

// BlobBackend stores binary image payloads by key.
type BlobBackend interface {
	Backend

	// PutBlob stores content under key, overwriting any previous payload.
	PutBlob(ctx context.Context, key string, content []byte, contentType data.ContentType) error

	// GetBlob returns the payload or data.ErrNotExist.
	GetBlob(ctx context.Context, key string) ([]byte, error)

	// DeleteBlob removes the payload or returns data.ErrNotExist.
	DeleteBlob(ctx context.Context, key string) error

	// ExistsBlob checks for the key without transferring content.
	ExistsBlob(ctx context.Context, key string) (bool, error)
}
