package bulk

import (
	"context"
	"sync"

	"github.com/mwantia/assetdesk/data"
)

type EditState int

const (
	EditIdle EditState = iota
	EditEditing
)

func (s EditState) String() string {
	if s == EditEditing {
		return "editing"
	}
	return "idle"
}

// Draft holds the values an operator is editing. Tags is the raw comma-delimited input.
type Draft struct {
	Title    string
	Tags     string
	Category string
}

// Patch turns the draft into the metadata patch sent to the remote store.
func (d Draft) Patch() *data.AssetPatch {
	return data.NewMetadataPatch(d.Title, data.ParseTags(d.Tags), d.Category)
}

// DraftOf prefills a draft with the current values of asset.
func DraftOf(asset *data.Asset) Draft {
	return Draft{
		Title:    asset.Title,
		Tags:     data.JoinTags(asset.Tags),
		Category: asset.Category,
	}
}

type editSession struct {
	mu    sync.Mutex
	state EditState
	id    string
	draft Draft
}

// BeginEdit opens an edit session for id, prefilled with its current values.
// An already open session is replaced.
func (p *Pipeline) BeginEdit(id string) (Draft, error) {
	asset, ok := p.records.Get(id)
	if !ok {
		return Draft{}, data.ErrNotExist
	}

	p.edit.mu.Lock()
	defer p.edit.mu.Unlock()

	p.edit.state = EditEditing
	p.edit.id = id
	p.edit.draft = DraftOf(asset)

	return p.edit.draft, nil
}

// Editing returns the asset id and draft of the open session.
func (p *Pipeline) Editing() (string, Draft, EditState) {
	p.edit.mu.Lock()
	defer p.edit.mu.Unlock()

	return p.edit.id, p.edit.draft, p.edit.state
}

// UpdateDraft replaces the draft of the open session.
func (p *Pipeline) UpdateDraft(draft Draft) error {
	p.edit.mu.Lock()
	defer p.edit.mu.Unlock()

	if p.edit.state != EditEditing {
		return data.ErrNoEditSession
	}

	p.edit.draft = draft
	return nil
}

// SaveEdit sends the draft as one patch. On success the catalog record is replaced
// by the stored version and the session closes; on failure the session stays open
// with the draft unchanged so the operator can retry.
func (p *Pipeline) SaveEdit(ctx context.Context) (*data.Asset, error) {
	p.edit.mu.Lock()
	defer p.edit.mu.Unlock()

	if p.edit.state != EditEditing {
		return nil, data.ErrNoEditSession
	}

	id := p.edit.id
	updated, err := p.remote.Patch(ctx, id, p.edit.draft.Patch())
	if err != nil {
		p.log.Warn("Failed to save edit of '%s': %v", id, err)
		return nil, err
	}

	p.reconcile(func() {
		// a record deleted meanwhile is not brought back
		if _, ok := p.records.Get(id); ok {
			p.records.Upsert(updated)
		}
	})

	p.edit.state = EditIdle
	p.edit.id = ""
	p.edit.draft = Draft{}

	return updated.Clone(), nil
}

// CancelEdit closes the session without saving. Cancelling while idle is a no-op.
func (p *Pipeline) CancelEdit() {
	p.edit.mu.Lock()
	defer p.edit.mu.Unlock()

	p.edit.state = EditIdle
	p.edit.id = ""
	p.edit.draft = Draft{}
}

// Edit opens a session for id with draft and saves it in one step.
func (p *Pipeline) Edit(ctx context.Context, id string, draft Draft) (*data.Asset, error) {
	if _, err := p.BeginEdit(id); err != nil {
		return nil, err
	}
	if err := p.UpdateDraft(draft); err != nil {
		return nil, err
	}

	return p.SaveEdit(ctx)
}
