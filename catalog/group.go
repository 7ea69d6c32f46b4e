package catalog

import (
	"strings"

	"github.com/mwantia/assetdesk/data"
	"github.com/tidwall/btree"
)

// UngroupedLabel is displayed for the reserved bucket of records without a value for the grouping field.
const UngroupedLabel = "ungrouped"

type Group struct {
	// Key is empty for the reserved bucket, so it never collides with a real folder or category
	Key      string
	Reserved bool
	Assets   []*data.Asset
}

// Label returns the key, or UngroupedLabel for the reserved bucket.
func (g Group) Label() string {
	if g.Reserved {
		return UngroupedLabel
	}
	return g.Key
}

// GroupBy partitions records into groups sorted by key, with the ungrouped bucket last.
// Every record lands in exactly one group and keeps its relative order.
func GroupBy(records []*data.Asset, by data.GroupField) []Group {
	groups := btree.NewMap[string, []*data.Asset](0)
	var ungrouped []*data.Asset

	for _, record := range records {
		key := record.GroupKey(by)
		if key == "" {
			ungrouped = append(ungrouped, record)
			continue
		}

		assets, _ := groups.Get(key)
		groups.Set(key, append(assets, record))
	}

	result := make([]Group, 0, groups.Len()+1)
	groups.Scan(func(key string, assets []*data.Asset) bool {
		result = append(result, Group{Key: key, Assets: assets})
		return true
	})

	if len(ungrouped) > 0 {
		result = append(result, Group{Reserved: true, Assets: ungrouped})
	}

	return result
}

// Filter keeps records whose title, category or any tag contains query, ignoring case.
// An empty query keeps everything.
func Filter(records []*data.Asset, query string) []*data.Asset {
	needle := strings.ToLower(query)

	filtered := make([]*data.Asset, 0, len(records))
	for _, record := range records {
		if needle == "" || matches(record, needle) {
			filtered = append(filtered, record)
		}
	}

	return filtered
}

// Matches reports whether record satisfies query.
func Matches(record *data.Asset, query string) bool {
	needle := strings.ToLower(query)
	return needle == "" || matches(record, needle)
}

func matches(record *data.Asset, needle string) bool {
	if strings.Contains(strings.ToLower(record.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Category), needle) {
		return true
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	return false
}
