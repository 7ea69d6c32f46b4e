package data

import (
	"time"

	"github.com/google/uuid"
)

// NewAsset creates a record with a fresh identifier and timestamps.
func NewAsset(title string, tags []string, category, folder string, ref ImageRef) *Asset {
	now := time.Now()

	a := &Asset{
		ID:         NewAssetID(),
		Type:       DefaultAssetType,
		Title:      title,
		Tags:       tags,
		Category:   category,
		Folder:     folder,
		ImageRef:   ref,
		CreateTime: now,
		ModifyTime: now,
	}

	return a.Normalize()
}

// NewAssetID is used by backends that assign identifiers on create.
func NewAssetID() string {
	return uuid.Must(uuid.NewV7()).String()
}
