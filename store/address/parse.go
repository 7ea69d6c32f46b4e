package address

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/data/errors"
	"github.com/mwantia/assetdesk/store"
	"github.com/mwantia/assetdesk/store/consul"
	"github.com/mwantia/assetdesk/store/memory"
	"github.com/mwantia/assetdesk/store/postgres"
	"github.com/mwantia/assetdesk/store/s3"
	"github.com/mwantia/assetdesk/store/sqlite"
)

// ParseBackendAddress turns a backend address into an unopened backend.
//
// Supported forms:
//
//	:memory: | memory://
//	sqlite://<path>                        (sqlite://:memory: for a transient db)
//	postgres://<user>:<pass>@<host>:<port>/<db>?<pgx options>
//	consul://<host>:<port>?token=<token>&prefix=<prefix>&dc=<datacenter>
//	s3://<endpoint>/<bucket>?access_key=<key>&secret_key=<secret>&ssl=<bool>
func ParseBackendAddress(ctx context.Context, address string) (store.Backend, error) {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, ":") {
		return nil, errors.MalformedAddress(data.ErrInvalid, address)
	}

	switch address {
	case ":memory:", "memory://":
		return memory.NewMemoryBackend(), nil
	}

	switch {
	case strings.HasPrefix(address, "sqlite://"):
		return parseSqliteAddress(strings.TrimPrefix(address, "sqlite://"))
	case strings.HasPrefix(address, "postgres://"),
		strings.HasPrefix(address, "postgresql://"):
		return postgres.NewPostgresBackend(ctx, address)
	case strings.HasPrefix(address, "psql://"):
		return postgres.NewPostgresBackend(ctx, "postgres://"+strings.TrimPrefix(address, "psql://"))
	case strings.HasPrefix(address, "consul://"):
		return parseConsulAddress(address)
	case strings.HasPrefix(address, "s3://"),
		strings.HasPrefix(address, "minio://"),
		strings.HasPrefix(address, "rustfs://"):
		return parseS3Address(address)
	}

	return nil, errors.UnknownProtocol(data.ErrBackendUnsupported, address)
}

// ParseStoreAddresses resolves the record and blob backends. An empty blob address,
// or one equal to the record address, reuses the record backend for payloads.
func ParseStoreAddresses(ctx context.Context, recordAddress, blobAddress string) (store.RecordBackend, store.BlobBackend, error) {
	backend, err := ParseBackendAddress(ctx, recordAddress)
	if err != nil {
		return nil, nil, err
	}

	records, ok := backend.(store.RecordBackend)
	if !ok || !backend.GetCapabilities().Contains(store.CapabilityRecords) {
		return nil, nil, errors.BackendUnsupported(data.ErrBackendUnsupported, backend.Name())
	}

	if blobAddress == "" || strings.TrimSpace(blobAddress) == strings.TrimSpace(recordAddress) {
		blobs, ok := backend.(store.BlobBackend)
		if !ok || !backend.GetCapabilities().Contains(store.CapabilityBlobs) {
			return nil, nil, errors.BackendUnsupported(data.ErrBackendUnsupported, backend.Name())
		}
		return records, blobs, nil
	}

	other, err := ParseBackendAddress(ctx, blobAddress)
	if err != nil {
		return nil, nil, err
	}

	blobs, ok := other.(store.BlobBackend)
	if !ok || !other.GetCapabilities().Contains(store.CapabilityBlobs) {
		return nil, nil, errors.BackendUnsupported(data.ErrBackendUnsupported, other.Name())
	}

	return records, blobs, nil
}

func parseSqliteAddress(path string) (store.Backend, error) {
	if path == "" {
		return nil, errors.MalformedAddress(data.ErrInvalid, "sqlite://")
	}

	return sqlite.NewSQLiteBackend(path)
}

func parseConsulAddress(address string) (store.Backend, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, errors.MalformedAddress(err, address)
	}
	if u.Host == "" {
		return nil, errors.MalformedAddress(data.ErrInvalid, address)
	}

	query := u.Query()
	return consul.NewConsulBackend(&consul.ConsulBackendConfig{
		Address:    u.Host,
		Token:      query.Get("token"),
		Datacenter: query.Get("dc"),
		Prefix:     query.Get("prefix"),
	})
}

func parseS3Address(address string) (store.Backend, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, errors.MalformedAddress(err, address)
	}

	bucket := strings.Trim(u.Path, "/")
	if u.Host == "" || bucket == "" {
		return nil, errors.MalformedAddress(fmt.Errorf("%w: endpoint and bucket required", data.ErrInvalid), address)
	}

	query := u.Query()
	useSsl := false
	if raw := query.Get("ssl"); raw != "" {
		useSsl, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.MalformedAddress(err, address)
		}
	}

	return s3.NewS3Backend(u.Host, bucket, query.Get("access_key"), query.Get("secret_key"), useSsl)
}
