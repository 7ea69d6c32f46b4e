package assetdesk

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/ingest"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/store"
	"github.com/mwantia/assetdesk/store/memory"
)

type switchGate struct {
	open bool
}

func (g *switchGate) Authorized(ctx context.Context) bool {
	return g.open
}

func newTestDesk(t *testing.T, opts ...DeskOption) (*Desk, *switchGate) {
	t.Helper()

	backend := memory.NewMemoryBackend()
	client, err := store.NewClient(backend, backend)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	return newTestDeskOn(t, client, opts...)
}

func newTestDeskOn(t *testing.T, client *store.Client, opts ...DeskOption) (*Desk, *switchGate) {
	t.Helper()

	gate := &switchGate{open: true}
	opts = append([]DeskOption{WithLogger(log.Discard()), WithGate(gate)}, opts...)

	desk, err := New(client, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := desk.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		desk.Close(context.Background())
	})

	return desk, gate
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestDesk_UploadSelectDelete(t *testing.T) {
	ctx := t.Context()
	desk, _ := newTestDesk(t)
	folder := data.DefaultFolders[1]

	result, err := desk.Upload(ctx, []ingest.Input{
		{Name: "a.png", Data: pngBytes(t, 4, 3)},
		{Name: "b.png", Data: pngBytes(t, 5, 3)},
		{Name: "c.png", Data: pngBytes(t, 6, 3)},
	}, ingest.Metadata{Title: "Kasper", Tags: "front, side", Category: "exterior", Folder: folder}, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("Expected 3 created, got %d: %v", len(result.Created), result.Err())
	}

	// the catalog is a cache of the store, so a reload must give the same view
	if err := desk.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	groups, err := desk.Groups(ctx, data.GroupByFolder, "")
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Key != folder || len(groups[0].Assets) != 3 {
		t.Fatalf("Unexpected groups: %+v", groups)
	}

	url, err := desk.DisplayURL(ctx, groups[0].Assets[0].ID)
	if err != nil {
		t.Fatalf("DisplayURL failed: %v", err)
	}
	if !strings.Contains(url, "-4x3.png?w=800") {
		t.Errorf("Unexpected display URL: %s", url)
	}

	selected, err := desk.SelectGroup(ctx, data.GroupByFolder, folder)
	if err != nil || !selected {
		t.Fatalf("SelectGroup failed: %v", err)
	}
	if _, err := desk.Toggle(ctx, groups[0].Assets[1].ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	deleted, err := desk.Delete(ctx)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(deleted.Succeeded) != 2 || !deleted.OK() {
		t.Errorf("Unexpected delete result: %s", deleted.Report())
	}

	if err := desk.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	remaining, _ := desk.Search(ctx, "")
	if len(remaining) != 1 || remaining[0].ID != groups[0].Assets[1].ID {
		t.Errorf("Expected only the toggled-off asset to remain, got %v", remaining)
	}
}

func TestDesk_ReloadDropsStaleSelection(t *testing.T) {
	ctx := t.Context()

	backend := memory.NewMemoryBackend()
	client, err := store.NewClient(backend, backend)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	desk, _ := newTestDeskOn(t, client)

	result, err := desk.Upload(ctx, []ingest.Input{
		{Name: "a.png", Data: pngBytes(t, 4, 3)},
		{Name: "b.png", Data: pngBytes(t, 5, 3)},
	}, ingest.Metadata{Title: "Kasper", Folder: data.DefaultFolders[1]}, nil)
	if err != nil || len(result.Created) != 2 {
		t.Fatalf("Upload failed: %v", err)
	}

	ids := make([]string, 0, len(result.Created))
	for _, asset := range result.Created {
		ids = append(ids, asset.ID)
	}
	if err := desk.Select(ctx, ids...); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// removed behind the desk's back, e.g. by another session
	if err := client.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := desk.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if desk.IsSelected(ctx, ids[0]) {
		t.Errorf("Expected deleted asset '%s' to be dropped from the selection", ids[0])
	}
	if !desk.IsSelected(ctx, ids[1]) {
		t.Errorf("Expected asset '%s' to stay selected", ids[1])
	}

	selected, err := desk.Selected(ctx)
	if err != nil {
		t.Fatalf("Selected failed: %v", err)
	}
	if len(selected) != 1 || selected[0].ID != ids[1] {
		t.Errorf("Unexpected selection after reload: %v", selected)
	}
}

type unreachableRecords struct {
	*memory.MemoryBackend
	down bool
}

func (r *unreachableRecords) QueryRecords(ctx context.Context, query *store.RecordQuery) ([]*data.Asset, error) {
	if r.down {
		return nil, errors.New("unreachable")
	}
	return r.MemoryBackend.QueryRecords(ctx, query)
}

func TestDesk_ReloadFailure(t *testing.T) {
	ctx := t.Context()

	backend := memory.NewMemoryBackend()
	records := &unreachableRecords{MemoryBackend: backend}
	client, err := store.NewClient(records, backend)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	desk, _ := newTestDeskOn(t, client)

	result, err := desk.Upload(ctx, []ingest.Input{
		{Name: "a.png", Data: pngBytes(t, 4, 3)},
	}, ingest.Metadata{Folder: data.DefaultFolders[1]}, nil)
	if err != nil || len(result.Created) != 1 {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := desk.Select(ctx, result.Created[0].ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	records.down = true
	if err := desk.Reload(ctx); err == nil {
		t.Fatal("Expected fetch error")
	}

	assets, _ := desk.Search(ctx, "")
	if len(assets) != 0 {
		t.Errorf("Expected empty catalog after failed reload, got %d", len(assets))
	}
	if desk.IsSelected(ctx, result.Created[0].ID) {
		t.Error("Expected selection to be emptied along with the catalog")
	}
}

func TestDesk_EditAndExport(t *testing.T) {
	ctx := t.Context()
	desk, _ := newTestDesk(t)

	result, err := desk.Upload(ctx, []ingest.Input{{Name: "a.png", Data: pngBytes(t, 2, 2)}},
		ingest.Metadata{Title: "photo", Folder: data.DefaultFolders[0]}, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	id := result.Created[0].ID

	updated, err := desk.Edit(ctx, id, bulk.Draft{Title: "renamed", Tags: " red, blue ,,green"})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if updated.Title != "renamed" || len(updated.Tags) != 3 {
		t.Errorf("Unexpected edit result: %+v", updated)
	}

	found, _ := desk.Search(ctx, "BLUE")
	if len(found) != 1 {
		t.Errorf("Expected edited tags to be searchable, got %d", len(found))
	}

	if err := desk.Select(ctx, id); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	var buf bytes.Buffer
	exported, err := desk.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !exported.OK() || buf.Len() == 0 {
		t.Errorf("Unexpected export: %s", exported.Report())
	}
	if selected, _ := desk.Selected(ctx); len(selected) != 0 {
		t.Error("Expected selection cleared after export")
	}
}

func TestDesk_Gate(t *testing.T) {
	ctx := t.Context()
	desk, gate := newTestDesk(t)
	gate.open = false

	if err := desk.Reload(ctx); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Reload: expected ErrUnauthorized, got %v", err)
	}
	if _, err := desk.Groups(ctx, data.GroupByFolder, ""); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Groups: expected ErrUnauthorized, got %v", err)
	}
	if _, err := desk.Delete(ctx); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Delete: expected ErrUnauthorized, got %v", err)
	}
	if _, err := desk.Upload(ctx, nil, ingest.Metadata{}, nil); !errors.Is(err, data.ErrUnauthorized) {
		t.Errorf("Upload: expected ErrUnauthorized, got %v", err)
	}
}

func TestDesk_SelectUnknown(t *testing.T) {
	ctx := t.Context()
	desk, _ := newTestDesk(t)

	if _, err := desk.Toggle(ctx, "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
	if err := desk.Select(ctx, "missing"); !errors.Is(err, data.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
	if _, err := desk.Delete(ctx); !errors.Is(err, data.ErrNothingSelected) {
		t.Errorf("Expected ErrNothingSelected, got %v", err)
	}
}
