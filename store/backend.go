package store

import "context"

// Backend is the lifecycle entrypoint shared by record and blob backends.
type Backend interface {
	// Name returns the identifier name defined for this backend
	Name() string
	// Open is part of the lifecycle behaviour and gets called before first use.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and releases connections.
	Close(ctx context.Context) error
	// Health returns the cheapest possible liveness check.
	Health() bool

	// GetCapabilities returns a list of capabilities supported by this backend.
	GetCapabilities() *Capabilities
}

// StorageBackend serves both records and blobs from one instance.
type StorageBackend interface {
	RecordBackend
	BlobBackend
}
