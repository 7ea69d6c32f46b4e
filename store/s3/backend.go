package s3

import (
	"context"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
)

// S3Backend stores image payloads in an S3 compatible bucket (AWS, MinIO, RustFS).
type S3Backend struct {
	mu sync.RWMutex

	client     *minio.Client
	bucketName string
	healthy    bool
}

func NewS3Backend(endpoint, bucketName, accessKey, secretKey string, useSsl bool) (*S3Backend, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	return &S3Backend{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Name returns the identifier name defined for this backend
func (*S3Backend) Name() string {
	return "s3"
}

// Open verifies that the configured bucket exists.
func (sb *S3Backend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	exists, err := sb.client.BucketExists(ctx, sb.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return data.ErrBackendClosed
	}

	sb.healthy = true
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *S3Backend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.healthy = false
	return nil
}

// Health reports whether Open succeeded and the client is still online.
func (sb *S3Backend) Health() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	return sb.healthy && sb.client.IsOnline()
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *S3Backend) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityBlobs,
			store.CapabilityDurable,
		},
	}
}
