package bulk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/selection"
)

var errRejected = errors.New("remote rejected request")

type fakeRemote struct {
	mu sync.Mutex

	failDelete map[string]bool
	failFetch  map[string]bool
	failPatch  bool

	calls   int
	deleted []string
}

func (r *fakeRemote) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.failDelete[id] {
		return errRejected
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRemote) Patch(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.failPatch {
		return nil, errRejected
	}

	updated := &data.Asset{ID: id, ImageRef: "image-x-1x1-jpg"}
	if _, err := patch.Apply(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *fakeRemote) FetchDisplay(ctx context.Context, ref data.ImageRef, width int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.failFetch[string(ref)] {
		return nil, errRejected
	}
	return []byte("payload:" + string(ref)), nil
}

type fixture struct {
	remote    *fakeRemote
	catalog   *catalog.Catalog
	selection *selection.Set
	pipeline  *Pipeline
}

func newFixture(t *testing.T, records []*data.Asset, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		remote:    &fakeRemote{failDelete: map[string]bool{}, failFetch: map[string]bool{}},
		catalog:   catalog.NewCatalog(nil),
		selection: selection.NewSet(),
	}
	f.catalog.Load(records)

	pipeline, err := NewPipeline(f.remote, f.catalog, f.selection, opts...)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	f.pipeline = pipeline

	return f
}

func threeAssets() []*data.Asset {
	return []*data.Asset{
		{ID: "A", Title: "Image-A", ImageRef: "image-a-1x1-jpg"},
		{ID: "B", Title: "Image-B", ImageRef: "image-b-1x1-png"},
		{ID: "C", Title: "Image-C", ImageRef: "image-c-1x1-webp"},
	}
}

func TestPipeline_NothingSelected(t *testing.T) {
	f := newFixture(t, threeAssets(), WithDownloader(&DirectorySink{Dir: t.TempDir()}))
	ctx := t.Context()

	if _, err := f.pipeline.Delete(ctx); !errors.Is(err, data.ErrNothingSelected) {
		t.Errorf("Delete: expected ErrNothingSelected, got %v", err)
	}
	if _, err := f.pipeline.Export(ctx, io.Discard); !errors.Is(err, data.ErrNothingSelected) {
		t.Errorf("Export: expected ErrNothingSelected, got %v", err)
	}
	if _, err := f.pipeline.Download(ctx); !errors.Is(err, data.ErrNothingSelected) {
		t.Errorf("Download: expected ErrNothingSelected, got %v", err)
	}
	if _, err := f.pipeline.Share(ctx); !errors.Is(err, data.ErrNothingSelected) {
		t.Errorf("Share: expected ErrNothingSelected, got %v", err)
	}
	if f.remote.calls != 0 {
		t.Errorf("Expected no remote calls, got %d", f.remote.calls)
	}
}

func TestPipeline_DeletePartialFailure(t *testing.T) {
	f := newFixture(t, append(threeAssets(), &data.Asset{ID: "D", Title: "Image-D"}))
	f.remote.failDelete["B"] = true
	f.selection.Select("A", "B", "C")

	result, err := f.pipeline.Delete(t.Context())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if fmt.Sprint(result.Succeeded) != "[A C]" {
		t.Errorf("Expected succeeded [A C], got %v", result.Succeeded)
	}
	if fmt.Sprint(result.FailedIDs()) != "[B]" || !errors.Is(result.Failed[0].Err, errRejected) {
		t.Errorf("Expected failure for B, got %v", result.Failed)
	}
	if !errors.Is(result.Err(), errRejected) {
		t.Errorf("Expected joined error to wrap the remote error, got %v", result.Err())
	}

	for _, id := range []string{"B", "D"} {
		if !f.catalog.Contains(id) {
			t.Errorf("Expected '%s' to remain in catalog", id)
		}
	}
	for _, id := range []string{"A", "C"} {
		if f.catalog.Contains(id) {
			t.Errorf("Expected '%s' to be removed from catalog", id)
		}
	}
	if f.selection.Len() != 0 {
		t.Errorf("Expected empty selection, got %v", f.selection.SelectedIDs())
	}

	if expected := "2 succeeded, 1 failed: Image-B"; result.Report() != expected {
		t.Errorf("Expected report %q, got %q", expected, result.Report())
	}
}

func TestPipeline_DeleteOne(t *testing.T) {
	f := newFixture(t, threeAssets())
	f.selection.Select("A", "B")

	if err := f.pipeline.DeleteOne(t.Context(), "A"); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	if f.catalog.Contains("A") || f.selection.IsSelected("A") {
		t.Error("Expected 'A' removed from catalog and selection")
	}
	if !f.selection.IsSelected("B") {
		t.Error("Expected unrelated selection to survive")
	}

	if err := f.pipeline.DeleteOne(t.Context(), "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func readArchive(t *testing.T, content []byte) map[string]string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}

	entries := make(map[string]string)
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("Open entry failed: %v", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Read entry failed: %v", err)
		}
		entries[file.Name] = string(raw)
	}

	return entries
}

func TestPipeline_ExportSameTitle(t *testing.T) {
	f := newFixture(t, []*data.Asset{
		{ID: "0192aaaa-1111-7000-8000-000000000001", Title: "photo", ImageRef: "image-p1-1x1-jpg"},
		{ID: "0192bbbb-2222-7000-8000-000000000002", Title: "photo", ImageRef: "image-p2-1x1-jpg"},
	})
	f.selection.Select("0192aaaa-1111-7000-8000-000000000001", "0192bbbb-2222-7000-8000-000000000002")

	var buf bytes.Buffer
	result, err := f.pipeline.Export(t.Context(), &buf)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !result.OK() || result.Artifact != ArchiveName {
		t.Errorf("Unexpected result: %+v", result)
	}

	entries := readArchive(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %v", entries)
	}
	if entries["photo.jpg"] != "payload:image-p1-1x1-jpg" {
		t.Errorf("Expected first asset under 'photo.jpg', got %v", entries)
	}
	if entries["photo-0192bbbb.jpg"] != "payload:image-p2-1x1-jpg" {
		t.Errorf("Expected second asset under 'photo-0192bbbb.jpg', got %v", entries)
	}
	if f.selection.Len() != 0 {
		t.Error("Expected selection cleared after export")
	}
}

func TestPipeline_ExportPartialFailure(t *testing.T) {
	for name, concurrency := range map[string]int{"sequential": 1, "parallel": 3} {
		t.Run(name, func(tst *testing.T) {
			f := newFixture(tst, threeAssets(), WithFetchConcurrency(concurrency))
			f.remote.failFetch["image-b-1x1-png"] = true
			f.selection.Select("A", "B", "C")

			var buf bytes.Buffer
			result, err := f.pipeline.Export(tst.Context(), &buf)
			if err != nil {
				tst.Fatalf("Export failed: %v", err)
			}

			if fmt.Sprint(result.Succeeded) != "[A C]" || fmt.Sprint(result.FailedIDs()) != "[B]" {
				tst.Errorf("Unexpected result: %s", result.Report())
			}

			entries := readArchive(tst, buf.Bytes())
			if _, ok := entries["Image-A.jpg"]; !ok {
				tst.Errorf("Missing Image-A.jpg in %v", entries)
			}
			if _, ok := entries["Image-C.webp"]; !ok {
				tst.Errorf("Missing Image-C.webp in %v", entries)
			}
			if len(entries) != 2 {
				tst.Errorf("Expected 2 entries, got %d", len(entries))
			}
		})
	}
}

func TestEntryNamer(t *testing.T) {
	namer := newEntryNamer()

	names := []string{
		namer.Name(&data.Asset{ID: "abcdefgh-1", Title: "a/b"}),
		namer.Name(&data.Asset{ID: "abcdefgh-2", Title: "A_B"}),
		namer.Name(&data.Asset{ID: "abcdefgh-3", Title: ""}),
		namer.Name(&data.Asset{ID: "abcdefgh-4", Title: "a_b"}),
	}

	expected := []string{"a_b.jpg", "A_B-abcdefgh.jpg", "untitled.jpg", "a_b-abcdefgh-4.jpg"}
	if fmt.Sprint(names) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}
}

func TestPipeline_Download(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Image-A.jpg"), []byte("existing"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f := newFixture(t, threeAssets(), WithDownloader(&DirectorySink{Dir: dir}))
	f.remote.failFetch["image-c-1x1-webp"] = true
	f.selection.Select("A", "C")

	result, err := f.pipeline.Download(t.Context())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if fmt.Sprint(result.Succeeded) != "[A]" || fmt.Sprint(result.FailedIDs()) != "[C]" {
		t.Errorf("Unexpected result: %s", result.Report())
	}

	raw, err := os.ReadFile(filepath.Join(dir, "Image-A (1).jpg"))
	if err != nil {
		t.Fatalf("Expected suffixed file: %v", err)
	}
	if string(raw) != "payload:image-a-1x1-jpg" {
		t.Errorf("Unexpected content: %q", raw)
	}
	if f.selection.Len() != 0 {
		t.Error("Expected selection cleared after download")
	}
}

type fakeSharer struct {
	err   error
	items []ShareItem
}

func (s *fakeSharer) CanShare() bool {
	return true
}

func (s *fakeSharer) Share(ctx context.Context, items []ShareItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = items
	return nil
}

func TestPipeline_Share(t *testing.T) {
	t.Run("unsupported", func(tst *testing.T) {
		f := newFixture(tst, threeAssets())
		f.selection.Select("A")

		if _, err := f.pipeline.Share(tst.Context()); !errors.Is(err, data.ErrShareUnsupported) {
			tst.Errorf("Expected ErrShareUnsupported, got %v", err)
		}
		if !f.selection.IsSelected("A") || f.remote.calls != 0 {
			tst.Error("Expected selection intact and no fetches")
		}
	})

	t.Run("cancelled", func(tst *testing.T) {
		f := newFixture(tst, threeAssets(), WithSharer(&fakeSharer{err: data.ErrShareCancelled}))
		f.selection.Select("A", "B")

		if _, err := f.pipeline.Share(tst.Context()); !errors.Is(err, data.ErrShareCancelled) {
			tst.Errorf("Expected ErrShareCancelled, got %v", err)
		}
		if f.selection.Len() != 2 {
			tst.Error("Expected selection intact after cancelled share")
		}
	})

	t.Run("fetch failure aborts", func(tst *testing.T) {
		sharer := &fakeSharer{}
		f := newFixture(tst, threeAssets(), WithSharer(sharer))
		f.remote.failFetch["image-b-1x1-png"] = true
		f.selection.Select("A", "B")

		if _, err := f.pipeline.Share(tst.Context()); !errors.Is(err, errRejected) {
			tst.Errorf("Expected whole share to fail, got %v", err)
		}
		if sharer.items != nil {
			tst.Error("Expected nothing handed to the sharer")
		}
	})

	t.Run("success", func(tst *testing.T) {
		sharer := &fakeSharer{}
		f := newFixture(tst, threeAssets(), WithSharer(sharer))
		f.selection.Select("B", "A")

		result, err := f.pipeline.Share(tst.Context())
		if err != nil {
			tst.Fatalf("Share failed: %v", err)
		}
		if len(sharer.items) != 2 || sharer.items[0].Name != "Image-B.png" || sharer.items[0].ContentType != data.ContentTypeImagePNG {
			tst.Errorf("Unexpected share items: %+v", sharer.items)
		}
		if len(result.Succeeded) != 2 || f.selection.Len() != 0 {
			tst.Error("Expected selection cleared after successful share")
		}
	})
}

func TestPipeline_Edit(t *testing.T) {
	f := newFixture(t, []*data.Asset{
		{ID: "X", Title: "Old", Tags: []string{"a", "b"}, Category: "c", ImageRef: "image-x-1x1-jpg"},
		{ID: "Y", Title: "Other"},
	})

	draft, err := f.pipeline.BeginEdit("X")
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if draft.Title != "Old" || draft.Tags != "a, b" {
		t.Errorf("Unexpected prefilled draft: %+v", draft)
	}

	if err := f.pipeline.UpdateDraft(Draft{Title: "New", Tags: " red, blue ,,green", Category: "exterior"}); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	updated, err := f.pipeline.SaveEdit(t.Context())
	if err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}
	if fmt.Sprint(updated.Tags) != "[red blue green]" {
		t.Errorf("Expected tags [red blue green], got %v", updated.Tags)
	}

	stored, _ := f.catalog.Get("X")
	if stored.Title != "New" || fmt.Sprint(stored.Tags) != "[red blue green]" || stored.Category != "exterior" {
		t.Errorf("Catalog not reconciled: %+v", stored)
	}
	if all := f.catalog.All(); all[0].ID != "X" {
		t.Error("Expected record replaced in place")
	}

	if _, _, state := f.pipeline.Editing(); state != EditIdle {
		t.Errorf("Expected idle session after save, got %s", state)
	}
	if _, err := f.pipeline.SaveEdit(t.Context()); !errors.Is(err, data.ErrNoEditSession) {
		t.Errorf("Expected ErrNoEditSession, got %v", err)
	}
}

func TestPipeline_EditFailureKeepsSession(t *testing.T) {
	f := newFixture(t, []*data.Asset{{ID: "X", Title: "Old"}})
	f.remote.failPatch = true

	draft := Draft{Title: "New", Tags: "a", Category: "c"}
	if _, err := f.pipeline.Edit(t.Context(), "X", draft); !errors.Is(err, errRejected) {
		t.Fatalf("Expected patch failure, got %v", err)
	}

	id, kept, state := f.pipeline.Editing()
	if state != EditEditing || id != "X" || kept != draft {
		t.Errorf("Expected open session with unchanged draft, got %s %s %+v", state, id, kept)
	}

	stored, _ := f.catalog.Get("X")
	if stored.Title != "Old" {
		t.Error("Catalog changed after failed edit")
	}

	f.remote.failPatch = false
	if _, err := f.pipeline.SaveEdit(t.Context()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}

	f.pipeline.CancelEdit()
	if _, _, state := f.pipeline.Editing(); state != EditIdle {
		t.Error("Expected idle after cancel")
	}
}
