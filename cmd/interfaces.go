package cmd

import (
	"context"
	"io"

	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/ingest"
)

// API is the part of the desk that operator commands act on.
type API interface {
	// Reload rebuilds the catalog from the remote store.
	Reload(ctx context.Context) error

	// Groups lists the catalog grouped by field, filtered within each group.
	Groups(ctx context.Context, by data.GroupField, query string) ([]catalog.Group, error)

	// Search returns every asset matching query.
	Search(ctx context.Context, query string) ([]*data.Asset, error)

	// Asset returns a single asset by id.
	Asset(ctx context.Context, id string) (*data.Asset, error)

	// DisplayURL returns the display URL of an asset.
	DisplayURL(ctx context.Context, id string) (string, error)

	Toggle(ctx context.Context, id string) (bool, error)
	Select(ctx context.Context, ids ...string) error
	SelectGroup(ctx context.Context, by data.GroupField, key string) (bool, error)
	IsSelected(ctx context.Context, id string) bool
	Selected(ctx context.Context) ([]*data.Asset, error)
	ClearSelection(ctx context.Context) error

	Delete(ctx context.Context) (*bulk.Result, error)
	DeleteOne(ctx context.Context, id string) error
	Export(ctx context.Context, w io.Writer) (*bulk.Result, error)

	// Download offers every selected asset to the configured download target.
	Download(ctx context.Context) (*bulk.Result, error)
	DownloadTo(ctx context.Context, dir string) (*bulk.Result, error)
	Share(ctx context.Context) (*bulk.Result, error)

	BeginEdit(ctx context.Context, id string) (bulk.Draft, error)
	UpdateDraft(ctx context.Context, draft bulk.Draft) error
	SaveEdit(ctx context.Context) (*data.Asset, error)
	CancelEdit(ctx context.Context) error

	// Upload ingests files and archives into the given folder.
	Upload(ctx context.Context, inputs []ingest.Input, meta ingest.Metadata, progress ingest.Progress) (*ingest.Result, error)

	// Folders lists the folders uploads may be filed under.
	Folders() data.Folders
}

// Command represents an operator command acting on the desk.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls [--by folder|category]")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
