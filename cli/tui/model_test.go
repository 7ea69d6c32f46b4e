package tui

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/assetdesk"
	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/cmd/builtin"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/ingest"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/session"
	"github.com/mwantia/assetdesk/store"
	"github.com/mwantia/assetdesk/store/memory"
)

func newTestModel(t *testing.T, gate session.Gate, login Login) (*Model, *assetdesk.Desk) {
	t.Helper()

	backend := memory.NewMemoryBackend()
	client, err := store.NewClient(backend, backend)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	desk, err := assetdesk.New(client, assetdesk.WithLogger(log.Discard()), assetdesk.WithGate(gate))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := desk.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		desk.Close(context.Background())
	})

	manager := cmd.NewCommandManager(desk)
	if err := builtin.InitBuiltin(manager); err != nil {
		t.Fatalf("InitBuiltin failed: %v", err)
	}

	m := NewModel(t.Context(), desk, manager, login)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, desk
}

func seed(t *testing.T, desk *assetdesk.Desk) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	_, err := desk.Upload(t.Context(), []ingest.Input{
		{Name: "a.png", Data: buf.Bytes()},
	}, ingest.Metadata{Title: "Front", Tags: "outside", Folder: data.DefaultFolders[0]}, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
}

// apply runs a command synchronously and feeds its message back into the model.
func apply(m *Model, c tea.Cmd) {
	if c == nil {
		return
	}
	if msg := c(); msg != nil {
		if _, ok := msg.(tea.BatchMsg); ok {
			return
		}
		_, next := m.Update(msg)
		apply(m, next)
	}
}

func TestModel_ToggleSelection(t *testing.T) {
	m, desk := newTestModel(t, session.StaticGate(true), nil)
	seed(t, desk)

	apply(m, m.loadCatalog(""))
	if len(m.entries) != 2 || !m.entries[0].IsGroup() {
		t.Fatalf("Expected a header and one asset, got %d entries", len(m.entries))
	}

	m.cursor = 1
	id := m.entries[1].Asset.ID

	_, next := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	apply(m, next)
	if !desk.IsSelected(t.Context(), id) {
		t.Error("Expected space to select the asset under the cursor")
	}

	m.cursor = 0
	_, next = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	apply(m, next)
	if desk.IsSelected(t.Context(), id) {
		t.Error("Expected group toggle to deselect the fully selected group")
	}
}

func TestModel_CommandMode(t *testing.T) {
	m, desk := newTestModel(t, session.StaticGate(true), nil)
	seed(t, desk)
	apply(m, m.loadCatalog(""))

	apply(m, m.runLine("select "+m.entries[1].Asset.ID))
	if m.errorMsg != "" {
		t.Fatalf("Command failed: %s", m.errorMsg)
	}
	if len(m.commandOut) == 0 {
		t.Error("Expected captured command output")
	}

	selected, err := desk.Selected(t.Context())
	if err != nil {
		t.Fatalf("Selected failed: %v", err)
	}
	if len(selected) != 1 {
		t.Errorf("Expected 1 selected asset, got %d", len(selected))
	}
}

func TestModel_Login(t *testing.T) {
	hash, err := session.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	gate := session.NewCredentialGate([]session.User{{Email: "ops@example.com", PasswordHash: hash}}, nil)
	m, _ := newTestModel(t, gate, gate)
	if m.mode != ModeLogin {
		t.Fatalf("Expected login mode, got %d", m.mode)
	}

	m.email.SetValue("ops@example.com")
	m.password.SetValue("wrong")
	apply(m, m.submitLogin())
	if m.mode != ModeLogin || m.errorMsg == "" {
		t.Error("Expected failed sign-in to stay on the form")
	}

	m.password.SetValue("secret")
	msg := m.submitLogin()()
	if _, ok := msg.(loggedInMsg); !ok {
		t.Fatalf("Expected loggedInMsg, got %T", msg)
	}
	m.Update(msg)
	if m.mode != ModeNormal {
		t.Errorf("Expected normal mode after sign-in, got %d", m.mode)
	}
}

func TestFlatten_ReservedBucket(t *testing.T) {
	groups := catalog.GroupBy([]*data.Asset{
		{ID: "1", Folder: catalog.UngroupedLabel},
		{ID: "2"},
	}, data.GroupByFolder)

	entries := flatten(groups)
	if len(entries) != 4 {
		t.Fatalf("Expected 2 headers and 2 assets, got %d entries", len(entries))
	}

	named, reserved := entries[0], entries[2]
	if named.Group != catalog.UngroupedLabel || named.DisplayName() != catalog.UngroupedLabel {
		t.Errorf("Unexpected header for folder 'ungrouped': %+v", named)
	}
	if reserved.Group != "" || reserved.DisplayName() != catalog.UngroupedLabel {
		t.Errorf("Expected reserved bucket to select by empty key, got %+v", reserved)
	}
}
