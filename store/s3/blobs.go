package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/assetdesk/data"
)

func isNotExist(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (sb *S3Backend) PutBlob(ctx context.Context, key string, content []byte, contentType data.ContentType) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	_, err := sb.client.PutObject(ctx, sb.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: string(contentType),
	})

	return err
}

func (sb *S3Backend) GetBlob(ctx context.Context, key string) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	object, err := sb.client.GetObject(ctx, sb.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		if isNotExist(err) {
			return nil, data.ErrNotExist
		}
		return nil, err
	}

	return content, nil
}

func (sb *S3Backend) DeleteBlob(ctx context.Context, key string) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if _, err := sb.client.StatObject(ctx, sb.bucketName, key, minio.StatObjectOptions{}); err != nil {
		if isNotExist(err) {
			return data.ErrNotExist
		}
		return err
	}

	return sb.client.RemoveObject(ctx, sb.bucketName, key, minio.RemoveObjectOptions{})
}

func (sb *S3Backend) ExistsBlob(ctx context.Context, key string) (bool, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	_, err := sb.client.StatObject(ctx, sb.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
