package consul

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/assetdesk/store"
)

// ConsulBackend stores asset records in the Consul KV store.
//
// Each record is one JSON document under `<prefix>/records/<id>`. Creation and
// patches use check-and-set so concurrent writers never overwrite each other.
// Consul KV has a 512KB limit per value, so blobs are out of scope for this backend.
type ConsulBackend struct {
	mu     sync.RWMutex
	client *api.Client
	kv     *api.KV

	config *ConsulBackendConfig
}

// ConsulBackendConfig contains configuration options for the Consul backend
type ConsulBackendConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Prefix for all keys in Consul KV (default: "assetdesk")
	Prefix string
}

// NewConsulBackend creates a new Consul-backed record store
func NewConsulBackend(config *ConsulBackendConfig) (*ConsulBackend, error) {
	if config == nil {
		config = &ConsulBackendConfig{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}
	config.Prefix = strings.Trim(config.Prefix, "/")
	if config.Prefix == "" {
		config.Prefix = "assetdesk"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	return &ConsulBackend{
		client: client,
		kv:     client.KV(),
		config: config,
	}, nil
}

// Name returns the identifier name defined for this backend
func (*ConsulBackend) Name() string {
	return "consul"
}

// Open checks that the agent answers before the catalog is loaded.
func (cb *ConsulBackend) Open(ctx context.Context) error {
	_, err := cb.client.Status().Leader()
	return err
}

// Close is a no-op; the Consul client is stateless.
func (cb *ConsulBackend) Close(ctx context.Context) error {
	return nil
}

// Health returns the cheapest possible liveness check.
func (cb *ConsulBackend) Health() bool {
	leader, err := cb.client.Status().Leader()
	return err == nil && leader != ""
}

// GetCapabilities returns a list of capabilities supported by this backend
func (cb *ConsulBackend) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityRecords,
			store.CapabilityDurable,
		},
		// Consul KV has a default limit of 512KB per value
		MaxObjectSize: 500 * 1024,
	}
}

func (cb *ConsulBackend) recordPrefix() string {
	return cb.config.Prefix + "/records/"
}

func (cb *ConsulBackend) recordKey(id string) string {
	return cb.recordPrefix() + id
}
