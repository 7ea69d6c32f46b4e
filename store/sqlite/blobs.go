package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/assetdesk/data"
)

func (sb *SQLiteBackend) PutBlob(ctx context.Context, key string, content []byte, contentType data.ContentType) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	_, err := sb.db.ExecContext(ctx, `
		INSERT INTO blobs (key, content, content_type, size, create_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content = excluded.content,
			content_type = excluded.content_type, size = excluded.size
	`, key, content, string(contentType), len(content), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}

	return nil
}

func (sb *SQLiteBackend) GetBlob(ctx context.Context, key string) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var content []byte
	err := sb.db.QueryRowContext(ctx, "SELECT content FROM blobs WHERE key = ?", key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return content, nil
}

func (sb *SQLiteBackend) DeleteBlob(ctx context.Context, key string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	result, err := sb.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return data.ErrNotExist
	}

	return nil
}

func (sb *SQLiteBackend) ExistsBlob(ctx context.Context, key string) (bool, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var exists int
	err := sb.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM blobs WHERE key = ?)", key).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists == 1, nil
}
