package memory

import (
	"context"
	"time"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
)

func (mb *MemoryBackend) CreateRecord(ctx context.Context, asset *data.Asset) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if asset.ID == "" {
		asset.ID = data.NewAssetID()
	}
	if _, exists := mb.records[asset.ID]; exists {
		return data.ErrExist
	}

	now := time.Now()
	if asset.CreateTime.IsZero() {
		asset.CreateTime = now
	}
	if asset.ModifyTime.IsZero() {
		asset.ModifyTime = now
	}

	mb.seq++
	mb.order.Set(mb.seq, asset.ID)
	mb.records[asset.ID] = &entry{
		seq:   mb.seq,
		asset: asset.Clone().Normalize(),
	}

	return nil
}

func (mb *MemoryBackend) ReadRecord(ctx context.Context, id string) (*data.Asset, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	e, exists := mb.records[id]
	if !exists {
		return nil, data.ErrNotExist
	}

	return e.asset.Clone(), nil
}

func (mb *MemoryBackend) PatchRecord(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	e, exists := mb.records[id]
	if !exists {
		return nil, data.ErrNotExist
	}

	updated := e.asset.Clone()
	if _, err := patch.Apply(updated); err != nil {
		return nil, err
	}
	e.asset = updated

	return updated.Clone(), nil
}

func (mb *MemoryBackend) DeleteRecord(ctx context.Context, id string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	e, exists := mb.records[id]
	if !exists {
		return data.ErrNotExist
	}

	mb.order.Delete(e.seq)
	delete(mb.records, id)

	return nil
}

func (mb *MemoryBackend) QueryRecords(ctx context.Context, query *store.RecordQuery) ([]*data.Asset, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	candidates := make([]*data.Asset, 0, len(mb.records))
	mb.order.Scan(func(_ uint64, id string) bool {
		candidates = append(candidates, mb.records[id].asset.Clone())
		return true
	})

	return store.ApplyQuery(candidates, query), nil
}
