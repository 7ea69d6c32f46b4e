package catalog

import (
	"sync"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/log"
)

// Catalog owns the in-memory set of assets for a session. Records keep the order
// they were loaded or appended in. Every record handed out is a copy.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*data.Asset

	log *log.Logger
}

func NewCatalog(logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Discard()
	}

	return &Catalog{
		records: make(map[string]*data.Asset),
		log:     logger,
	}
}

// Load replaces the entire set. Records with an ID already seen in the same batch are dropped.
func (c *Catalog) Load(records []*data.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = make([]string, 0, len(records))
	c.records = make(map[string]*data.Asset, len(records))

	for _, record := range records {
		if record == nil {
			continue
		}
		if _, exists := c.records[record.ID]; exists {
			c.log.Warn("Dropping duplicate record '%s' during load", record.ID)
			continue
		}

		c.order = append(c.order, record.ID)
		c.records[record.ID] = record.Clone().Normalize()
	}

	c.log.Debug("Loaded %d records", len(c.order))
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.order)
}

func (c *Catalog) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.records[id]
	return exists
}

func (c *Catalog) Get(id string) (*data.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, exists := c.records[id]
	if !exists {
		return nil, false
	}

	return record.Clone(), true
}

// All returns every record in catalog order.
func (c *Catalog) All() []*data.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot()
}

func (c *Catalog) snapshot() []*data.Asset {
	records := make([]*data.Asset, 0, len(c.order))
	for _, id := range c.order {
		records = append(records, c.records[id].Clone())
	}

	return records
}

// Upsert replaces a known record in place or appends a new one.
func (c *Catalog) Upsert(record *data.Asset) {
	if record == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[record.ID]; !exists {
		c.order = append(c.order, record.ID)
	}
	c.records[record.ID] = record.Clone().Normalize()
}

// Remove drops the record and reports whether it was present. Unknown ids are a no-op.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[id]; !exists {
		return false
	}

	delete(c.records, id)
	for i, known := range c.order {
		if known == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	return true
}

// Filter returns the records matching query, in catalog order.
func (c *Catalog) Filter(query string) []*data.Asset {
	return Filter(c.All(), query)
}

// GroupBy partitions the catalog by the given field.
func (c *Catalog) GroupBy(by data.GroupField) []Group {
	return GroupBy(c.All(), by)
}

// Apply groups the catalog and filters each group independently; groups without
// matches stay in the listing with no assets.
func (c *Catalog) Apply(by data.GroupField, query string) []Group {
	groups := c.GroupBy(by)
	for i := range groups {
		groups[i].Assets = Filter(groups[i].Assets, query)
	}

	return groups
}

// GroupIDs returns the ids of every record in the group identified by key.
// An empty key addresses the reserved bucket.
func (c *Catalog) GroupIDs(by data.GroupField, key string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []string
	for _, id := range c.order {
		if c.records[id].GroupKey(by) == key {
			ids = append(ids, id)
		}
	}

	return ids
}
