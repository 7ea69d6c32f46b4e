package consul

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
)

func (cb *ConsulBackend) encode(asset *data.Asset) ([]byte, error) {
	value, err := json.Marshal(asset)
	if err != nil {
		return nil, err
	}

	if limit := cb.GetCapabilities().MaxObjectSize; int64(len(value)) > limit {
		return nil, fmt.Errorf("%w: record '%s' is %d bytes", data.ErrObjectTooLarge, asset.ID, len(value))
	}

	return value, nil
}

func decode(pair *api.KVPair) (*data.Asset, error) {
	var asset data.Asset
	if err := json.Unmarshal(pair.Value, &asset); err != nil {
		return nil, fmt.Errorf("failed to decode record '%s': %w", pair.Key, err)
	}

	return asset.Normalize(), nil
}

func (cb *ConsulBackend) CreateRecord(ctx context.Context, asset *data.Asset) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if asset.ID == "" {
		asset.ID = data.NewAssetID()
	}
	asset.Normalize()

	now := time.Now()
	if asset.CreateTime.IsZero() {
		asset.CreateTime = now
	}
	if asset.ModifyTime.IsZero() {
		asset.ModifyTime = now
	}

	value, err := cb.encode(asset)
	if err != nil {
		return err
	}

	// ModifyIndex 0 only succeeds if the key does not exist yet
	ok, _, err := cb.kv.CAS(&api.KVPair{
		Key:         cb.recordKey(asset.ID),
		Value:       value,
		ModifyIndex: 0,
	}, (&api.WriteOptions{}).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return data.ErrExist
	}

	return nil
}

func (cb *ConsulBackend) ReadRecord(ctx context.Context, id string) (*data.Asset, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	pair, _, err := cb.kv.Get(cb.recordKey(id), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, data.ErrNotExist
	}

	return decode(pair)
}

func (cb *ConsulBackend) PatchRecord(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	pair, _, err := cb.kv.Get(cb.recordKey(id), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, data.ErrNotExist
	}

	asset, err := decode(pair)
	if err != nil {
		return nil, err
	}
	if _, err := patch.Apply(asset); err != nil {
		return nil, err
	}

	value, err := cb.encode(asset)
	if err != nil {
		return nil, err
	}

	ok, _, err := cb.kv.CAS(&api.KVPair{
		Key:         pair.Key,
		Value:       value,
		ModifyIndex: pair.ModifyIndex,
	}, (&api.WriteOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("record '%s' changed concurrently", id)
	}

	return asset, nil
}

func (cb *ConsulBackend) DeleteRecord(ctx context.Context, id string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	key := cb.recordKey(id)
	pair, _, err := cb.kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return err
	}
	if pair == nil {
		return data.ErrNotExist
	}

	_, err = cb.kv.Delete(key, (&api.WriteOptions{}).WithContext(ctx))
	return err
}

func (cb *ConsulBackend) QueryRecords(ctx context.Context, query *store.RecordQuery) ([]*data.Asset, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	pairs, _, err := cb.kv.List(cb.recordPrefix(), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	candidates := make([]*data.Asset, 0, len(pairs))
	for _, pair := range pairs {
		asset, err := decode(pair)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, asset)
	}

	// KV listings are ordered by key, not by insertion
	store.SortByCreateTime(candidates)

	return store.ApplyQuery(candidates, query), nil
}
