package tui

import (
	"fmt"

	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/data"
)

// Entry is one row of the browser: either a group header or an asset below it.
type Entry struct {
	// Group is the key passed to SelectGroup; Label is what the header shows
	Group string
	Label string
	IDs   []string
	Asset *data.Asset
}

func (e *Entry) IsGroup() bool {
	return e.Asset == nil
}

// DisplayName returns the group label or the asset title
func (e *Entry) DisplayName() string {
	if e.IsGroup() {
		return e.Label
	}
	return e.Asset.DisplayTitle()
}

// DisplayCount renders "<selected>/<total>" for group headers
func (e *Entry) DisplayCount(selected int) string {
	if !e.IsGroup() {
		return ""
	}
	return fmt.Sprintf("%d/%d", selected, len(e.IDs))
}

// DisplayModTime returns formatted modification time
func (e *Entry) DisplayModTime() string {
	if e.IsGroup() || e.Asset.ModifyTime.IsZero() {
		return "-"
	}
	return e.Asset.ModifyTime.Format("2006-01-02 15:04:05")
}

// Icon returns a marker for group headers and the selection box for assets
func (e *Entry) Icon(selected bool) string {
	switch {
	case e.IsGroup():
		return "▸"
	case selected:
		return "[x]"
	default:
		return "[ ]"
	}
}

// flatten turns groups into rows, each header followed by its assets.
func flatten(groups []catalog.Group) []*Entry {
	var entries []*Entry
	for _, group := range groups {
		header := &Entry{Group: group.Key, Label: group.Label(), IDs: make([]string, 0, len(group.Assets))}
		entries = append(entries, header)

		for _, asset := range group.Assets {
			header.IDs = append(header.IDs, asset.ID)
			entries = append(entries, &Entry{Group: group.Key, Label: group.Label(), Asset: asset})
		}
	}
	return entries
}
