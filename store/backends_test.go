package store_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
	"github.com/mwantia/assetdesk/store/memory"
	"github.com/mwantia/assetdesk/store/sqlite"
)

// TestBackendFactory creates a new backend instance for testing.
type TestBackendFactory func(t *testing.T) (store.StorageBackend, error)

// GetTestBackendFactories returns all self-contained backend implementations to test.
func GetTestBackendFactories() map[string]TestBackendFactory {
	return map[string]TestBackendFactory{
		"memory": func(t *testing.T) (store.StorageBackend, error) {
			return memory.NewMemoryBackend(), nil
		},
		"sqlite": func(t *testing.T) (store.StorageBackend, error) {
			return sqlite.NewSQLiteBackend(":memory:")
		},
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	return buf.Bytes()
}

// TestAllBackends_RecordLifecycle verifies create, read, patch and delete across
// all backend implementations.
func TestAllBackends_RecordLifecycle(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			backend, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}
			if err := backend.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer backend.Close(ctx)

			asset := &data.Asset{Title: "Bus 1", Tags: []string{"red"}, Folder: "4203", ImageRef: "image-abc-10x20-png"}
			if err := backend.CreateRecord(ctx, asset); err != nil {
				tst.Fatalf("CreateRecord failed: %v", err)
			}
			if asset.ID == "" {
				tst.Fatal("Expected backend to assign an ID")
			}

			if err := backend.CreateRecord(ctx, asset.Clone()); !errors.Is(err, data.ErrExist) {
				tst.Errorf("Expected ErrExist for duplicate ID, got %v", err)
			}

			got, err := backend.ReadRecord(ctx, asset.ID)
			if err != nil {
				tst.Fatalf("ReadRecord failed: %v", err)
			}
			if got.Title != "Bus 1" || got.Folder != "4203" || got.Type != data.DefaultAssetType {
				tst.Errorf("Unexpected record: %+v", got)
			}

			updated, err := backend.PatchRecord(ctx, asset.ID, data.NewMetadataPatch("Bus 2", []string{"blue", "green"}, "exterior"))
			if err != nil {
				tst.Fatalf("PatchRecord failed: %v", err)
			}
			if updated.Title != "Bus 2" || len(updated.Tags) != 2 || updated.Category != "exterior" {
				tst.Errorf("Unexpected patched record: %+v", updated)
			}
			if updated.Folder != "4203" || updated.ImageRef != asset.ImageRef {
				tst.Errorf("Patch touched unmasked fields: %+v", updated)
			}

			if err := backend.DeleteRecord(ctx, asset.ID); err != nil {
				tst.Fatalf("DeleteRecord failed: %v", err)
			}
			if _, err := backend.ReadRecord(ctx, asset.ID); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist after delete, got %v", err)
			}
			if err := backend.DeleteRecord(ctx, asset.ID); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for second delete, got %v", err)
			}
			if _, err := backend.PatchRecord(ctx, asset.ID, data.NewMetadataPatch("x", nil, "")); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for patch of missing record, got %v", err)
			}
		})
	}
}

// TestAllBackends_QueryOrder verifies listings come back in creation order and honour filters.
func TestAllBackends_QueryOrder(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			backend, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}
			defer backend.Close(ctx)

			titles := []string{"c", "a", "b", "d"}
			for i, title := range titles {
				folder := "4203"
				if i%2 == 1 {
					folder = "4210"
				}
				if err := backend.CreateRecord(ctx, &data.Asset{Title: title, Folder: folder, ImageRef: "image-x-1x1-jpg"}); err != nil {
					tst.Fatalf("CreateRecord failed: %v", err)
				}
			}
			if err := backend.CreateRecord(ctx, &data.Asset{Type: "other", Title: "skip", ImageRef: "image-x-1x1-jpg"}); err != nil {
				tst.Fatalf("CreateRecord failed: %v", err)
			}

			all, err := backend.QueryRecords(ctx, &store.RecordQuery{Type: data.DefaultAssetType})
			if err != nil {
				tst.Fatalf("QueryRecords failed: %v", err)
			}
			if len(all) != len(titles) {
				tst.Fatalf("Expected %d records, got %d", len(titles), len(all))
			}
			for i, asset := range all {
				if asset.Title != titles[i] {
					tst.Errorf("Position %d: expected '%s', got '%s'", i, titles[i], asset.Title)
				}
			}

			folder, err := backend.QueryRecords(ctx, &store.RecordQuery{Folder: "4210"})
			if err != nil {
				tst.Fatalf("QueryRecords failed: %v", err)
			}
			if len(folder) != 2 || folder[0].Title != "a" || folder[1].Title != "d" {
				tst.Errorf("Unexpected folder listing: %v", folder)
			}

			limited, err := backend.QueryRecords(ctx, &store.RecordQuery{Limit: 2})
			if err != nil {
				tst.Fatalf("QueryRecords failed: %v", err)
			}
			if len(limited) != 2 {
				tst.Errorf("Expected limit of 2, got %d", len(limited))
			}
		})
	}
}

// TestAllBackends_Blobs verifies blob storage and existence checks.
func TestAllBackends_Blobs(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			backend, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}
			defer backend.Close(ctx)

			if ok, err := backend.ExistsBlob(ctx, "images/a.png"); err != nil || ok {
				tst.Errorf("Expected missing blob, got %v / %v", ok, err)
			}

			if err := backend.PutBlob(ctx, "images/a.png", []byte("hello"), data.ContentTypeImagePNG); err != nil {
				tst.Fatalf("PutBlob failed: %v", err)
			}
			got, err := backend.GetBlob(ctx, "images/a.png")
			if err != nil {
				tst.Fatalf("GetBlob failed: %v", err)
			}
			if string(got) != "hello" {
				tst.Errorf("Expected 'hello', got %q", got)
			}

			if err := backend.DeleteBlob(ctx, "images/a.png"); err != nil {
				tst.Fatalf("DeleteBlob failed: %v", err)
			}
			if _, err := backend.GetBlob(ctx, "images/a.png"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist, got %v", err)
			}
		})
	}
}

func TestClient_UploadBlob(t *testing.T) {
	ctx := t.Context()
	backend := memory.NewMemoryBackend()

	client, err := store.NewClient(backend, backend)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	content := testPNG(t, 12, 7)
	ref, err := client.UploadBlob(ctx, content, data.ContentTypeImagePNG)
	if err != nil {
		t.Fatalf("UploadBlob failed: %v", err)
	}

	parts, err := ref.Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parts.Width != 12 || parts.Height != 7 || parts.Format != "png" {
		t.Errorf("Unexpected reference parts: %+v", parts)
	}

	again, err := client.UploadBlob(ctx, content, data.ContentTypeImagePNG)
	if err != nil {
		t.Fatalf("UploadBlob failed: %v", err)
	}
	if again != ref {
		t.Errorf("Expected identical reference for identical content, got %s and %s", ref, again)
	}

	display, err := client.FetchDisplay(ctx, ref, store.DefaultDisplayWidth)
	if err != nil {
		t.Fatalf("FetchDisplay failed: %v", err)
	}
	if !bytes.Equal(display, content) {
		t.Error("FetchDisplay returned different bytes")
	}
}

func TestClient_RequiresCapabilities(t *testing.T) {
	backend := memory.NewMemoryBackend()

	if _, err := store.NewClient(nil, backend); !errors.Is(err, data.ErrBackendUnsupported) {
		t.Errorf("Expected ErrBackendUnsupported, got %v", err)
	}
}
