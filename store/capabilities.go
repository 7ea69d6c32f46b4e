package store

import "slices"

type Capability string

const (
	CapabilityRecords Capability = "records"
	CapabilityBlobs   Capability = "blobs"
	// Backend persists across process restarts.
	CapabilityDurable Capability = "durable"
	// Backend serves blobs through a public URL instead of direct reads.
	CapabilityPublicURL Capability = "public_url"
)

// Capabilities describes what a backend supports.
type Capabilities struct {
	Capabilities  []Capability `json:"capabilities"`
	MaxObjectSize int64        `json:"max_object_size"`
}

// Contains checks if a capability is supported
func (c *Capabilities) Contains(capability Capability) bool {
	return slices.Contains(c.Capabilities, capability)
}
