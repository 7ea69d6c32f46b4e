package memory

import (
	"bytes"
	"context"

	"github.com/mwantia/assetdesk/data"
)

func (mb *MemoryBackend) PutBlob(ctx context.Context, key string, content []byte, contentType data.ContentType) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.blobs.Set(key, &blob{
		content:     bytes.Clone(content),
		contentType: contentType,
	})

	return nil
}

func (mb *MemoryBackend) GetBlob(ctx context.Context, key string) ([]byte, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	b, exists := mb.blobs.Get(key)
	if !exists {
		return nil, data.ErrNotExist
	}

	return bytes.Clone(b.content), nil
}

func (mb *MemoryBackend) DeleteBlob(ctx context.Context, key string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if _, deleted := mb.blobs.Delete(key); !deleted {
		return data.ErrNotExist
	}

	return nil
}

func (mb *MemoryBackend) ExistsBlob(ctx context.Context, key string) (bool, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	_, exists := mb.blobs.Get(key)
	return exists, nil
}
