package data

import (
	"slices"
	"time"
)

// DefaultAssetType is the document type every catalog record is stored under.
const DefaultAssetType = "imageAsset"

// Asset is one image and its metadata as held by the remote store.
// ID and ImageRef never change after creation; Title, Tags, Category and Folder
// are editable. Tags is never nil once a record passed through Normalize.
type Asset struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Category string   `json:"category,omitempty"`
	Folder   string   `json:"folder,omitempty"`
	ImageRef ImageRef `json:"image_ref"`

	CreateTime time.Time `json:"create_time"`
	ModifyTime time.Time `json:"modify_time"`
}

// Normalize fills defaults so that callers can scan fields unconditionally.
func (a *Asset) Normalize() *Asset {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Type == "" {
		a.Type = DefaultAssetType
	}

	return a
}

// Clone returns a deep copy; the tag slice is not shared.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}

	clone := *a
	clone.Tags = slices.Clone(a.Tags)
	if clone.Tags == nil {
		clone.Tags = []string{}
	}

	return &clone
}

// GroupKey returns the value used for the given grouping dimension.
// Folder grouping falls back to the category when a record has no folder.
// An empty result means the record belongs to the ungrouped bucket.
func (a *Asset) GroupKey(by GroupField) string {
	switch by {
	case GroupByCategory:
		return a.Category
	default:
		if a.Folder != "" {
			return a.Folder
		}
		return a.Category
	}
}

// DisplayTitle returns the title or a placeholder for untitled records.
func (a *Asset) DisplayTitle() string {
	if a.Title == "" {
		return "untitled"
	}

	return a.Title
}

type GroupField string

const (
	GroupByFolder   GroupField = "folder"
	GroupByCategory GroupField = "category"
)

func ParseGroupField(s string) (GroupField, error) {
	switch GroupField(s) {
	case "", GroupByFolder:
		return GroupByFolder, nil
	case GroupByCategory:
		return GroupByCategory, nil
	}

	return "", InvalidArgument("unknown grouping '%s'", s)
}
