package memory

import (
	"context"
	"sync"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
	"github.com/tidwall/btree"
)

// MemoryBackend keeps records and blobs in process memory. Records are indexed
// by a monotonically increasing sequence so listings come back in creation order.
type MemoryBackend struct {
	mu sync.RWMutex

	seq     uint64
	order   *btree.Map[uint64, string]
	records map[string]*entry
	blobs   *btree.Map[string, *blob]
}

type entry struct {
	seq   uint64
	asset *data.Asset
}

type blob struct {
	content     []byte
	contentType data.ContentType
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		order:   btree.NewMap[uint64, string](0),
		records: make(map[string]*entry),
		blobs:   btree.NewMap[string, *blob](0),
	}
}

// Name returns the identifier name defined for this backend
func (*MemoryBackend) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (mb *MemoryBackend) Open(ctx context.Context) error {
	return nil
}

// Close drops all state; a closed memory backend starts empty when reused.
func (mb *MemoryBackend) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.order.Clear()
	mb.blobs.Clear()
	clear(mb.records)

	return nil
}

// Health returns the cheapest possible liveness check.
func (mb *MemoryBackend) Health() bool {
	return true
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (mb *MemoryBackend) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityRecords,
			store.CapabilityBlobs,
		},
	}
}
