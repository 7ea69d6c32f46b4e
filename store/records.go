package store

import (
	"context"
	"slices"

	"github.com/mwantia/assetdesk/data"
)

// RecordBackend stores asset documents.
type RecordBackend interface {
	Backend

	// CreateRecord persists a new record. Backends assign an ID when asset.ID is empty
	// and must reject a duplicate ID with data.ErrExist.
	CreateRecord(ctx context.Context, asset *data.Asset) error

	// ReadRecord returns the record or data.ErrNotExist.
	ReadRecord(ctx context.Context, id string) (*data.Asset, error)

	// PatchRecord applies the patch and returns the updated record.
	PatchRecord(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error)

	// DeleteRecord removes the record or returns data.ErrNotExist.
	DeleteRecord(ctx context.Context, id string) error

	// QueryRecords returns matching records in creation order.
	QueryRecords(ctx context.Context, query *RecordQuery) ([]*data.Asset, error)
}

// RecordQuery narrows a record listing. Empty fields match everything.
type RecordQuery struct {
	Type     string `json:"type,omitempty"`
	Folder   string `json:"folder,omitempty"`
	Category string `json:"category,omitempty"`

	// Max results to return (0 = unlimited)
	Limit int `json:"limit"`
}

// Matches reports whether asset satisfies every set field of the query.
func (q *RecordQuery) Matches(asset *data.Asset) bool {
	if q == nil {
		return true
	}
	if q.Type != "" && asset.Type != q.Type {
		return false
	}
	if q.Folder != "" && asset.Folder != q.Folder {
		return false
	}
	if q.Category != "" && asset.Category != q.Category {
		return false
	}

	return true
}

// ApplyQuery filters candidates that are already in creation order and applies the limit.
func ApplyQuery(candidates []*data.Asset, query *RecordQuery) []*data.Asset {
	filtered := make([]*data.Asset, 0, len(candidates))
	for _, asset := range candidates {
		if query.Matches(asset) {
			filtered = append(filtered, asset)
		}
	}

	if query != nil && query.Limit > 0 && len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}

	return filtered
}

// SortByCreateTime orders records oldest first, keeping the input order for ties.
func SortByCreateTime(records []*data.Asset) {
	slices.SortStableFunc(records, func(a, b *data.Asset) int {
		return a.CreateTime.Compare(b.CreateTime)
	})
}
