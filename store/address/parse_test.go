package address

import (
	"errors"
	"testing"

	"github.com/mwantia/assetdesk/data"
)

func TestParseBackendAddress(t *testing.T) {
	ctx := t.Context()

	tests := map[string]string{
		":memory:":                               "memory",
		"memory://":                              "memory",
		"sqlite://:memory:":                      "sqlite",
		"consul://127.0.0.1:8500?prefix=desk":    "consul",
		"s3://localhost:9000/assets?ssl=false":   "s3",
		"minio://localhost:9000/assets?ssl=true": "s3",
	}

	for address, expected := range tests {
		t.Run(address, func(tst *testing.T) {
			backend, err := ParseBackendAddress(ctx, address)
			if err != nil {
				tst.Fatalf("ParseBackendAddress failed: %v", err)
			}
			if backend.Name() != expected {
				tst.Errorf("Expected backend '%s', got '%s'", expected, backend.Name())
			}
		})
	}
}

func TestParseBackendAddress_Errors(t *testing.T) {
	ctx := t.Context()

	if _, err := ParseBackendAddress(ctx, "nothing"); !errors.Is(err, data.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for missing protocol, got %v", err)
	}
	if _, err := ParseBackendAddress(ctx, "ftp://host"); !errors.Is(err, data.ErrBackendUnsupported) {
		t.Errorf("Expected ErrBackendUnsupported for unknown protocol, got %v", err)
	}
	if _, err := ParseBackendAddress(ctx, "s3://localhost:9000"); !errors.Is(err, data.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for missing bucket, got %v", err)
	}
	if _, err := ParseBackendAddress(ctx, "s3://localhost:9000/b?ssl=maybe"); err == nil {
		t.Error("Expected error for invalid ssl flag")
	}
}

func TestParseStoreAddresses(t *testing.T) {
	ctx := t.Context()

	records, blobs, err := ParseStoreAddresses(ctx, ":memory:", "")
	if err != nil {
		t.Fatalf("ParseStoreAddresses failed: %v", err)
	}
	if any(records) != any(blobs) {
		t.Error("Expected shared backend when blob address is empty")
	}

	if _, _, err := ParseStoreAddresses(ctx, "consul://127.0.0.1:8500", ""); !errors.Is(err, data.ErrBackendUnsupported) {
		t.Errorf("Expected consul without blob backend to be rejected, got %v", err)
	}

	if _, _, err := ParseStoreAddresses(ctx, "s3://localhost:9000/assets", ""); !errors.Is(err, data.ErrBackendUnsupported) {
		t.Errorf("Expected s3 as record backend to be rejected, got %v", err)
	}

	records, blobs, err = ParseStoreAddresses(ctx, "consul://127.0.0.1:8500", "s3://localhost:9000/assets")
	if err != nil {
		t.Fatalf("ParseStoreAddresses failed: %v", err)
	}
	if records.Name() != "consul" || blobs.Name() != "s3" {
		t.Errorf("Unexpected backends: %s / %s", records.Name(), blobs.Name())
	}
}
