package assetdesk

import (
	"context"
	"io"
	"sync"

	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/ingest"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/selection"
	"github.com/mwantia/assetdesk/session"
	"github.com/mwantia/assetdesk/store"
)

// Desk ties the catalog, the selection, the bulk pipeline and the ingestor to one
// remote store. Every operation is refused with data.ErrUnauthorized while the gate is closed.
type Desk struct {
	// mu serializes every combined update of catalog and selection
	mu sync.Mutex

	client    *store.Client
	catalog   *catalog.Catalog
	selection *selection.Set
	pipeline  *bulk.Pipeline
	ingestor  *ingest.Ingestor
	gate      session.Gate

	options *DeskOptions
	log     *log.Logger
}

func New(client *store.Client, opts ...DeskOption) (*Desk, error) {
	options := newDefaultDeskOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("assetdesk", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	d := &Desk{
		client:    client,
		catalog:   catalog.NewCatalog(logger.Named("catalog")),
		selection: selection.NewSet(),
		gate:      options.Gate,
		options:   options,
		log:       logger,
	}

	pipelineOpts := []bulk.Option{
		bulk.WithLock(&d.mu),
		bulk.WithDisplayWidth(options.DisplayWidth),
		bulk.WithFetchConcurrency(options.FetchConcurrency),
		bulk.WithSharer(options.Sharer),
		bulk.WithLogger(logger.Named("bulk")),
	}
	if options.Downloader != nil {
		pipelineOpts = append(pipelineOpts, bulk.WithDownloader(options.Downloader))
	}

	pipeline, err := bulk.NewPipeline(client, d.catalog, d.selection, pipelineOpts...)
	if err != nil {
		return nil, err
	}
	d.pipeline = pipeline

	ingestor, err := ingest.NewIngestor(client, d.catalog,
		ingest.WithLock(&d.mu),
		ingest.WithFolders(options.Folders),
		ingest.WithMaxEntrySize(options.MaxEntrySize),
		ingest.WithLogger(logger.Named("ingest")))
	if err != nil {
		return nil, err
	}
	d.ingestor = ingestor

	return d, nil
}

// Open opens the store backends. The catalog stays empty until Reload.
func (d *Desk) Open(ctx context.Context) error {
	if err := d.client.Open(ctx); err != nil {
		return err
	}

	d.log.Info("Store opened")
	return nil
}

func (d *Desk) Close(ctx context.Context) error {
	return d.client.Close(ctx)
}

func (d *Desk) Health() bool {
	return d.client.Health()
}

func (d *Desk) Authorized(ctx context.Context) bool {
	return d.gate.Authorized(ctx)
}

func (d *Desk) authorize(ctx context.Context) error {
	if !d.gate.Authorized(ctx) {
		return data.ErrUnauthorized
	}
	return nil
}

func (d *Desk) Folders() data.Folders {
	return d.ingestor.Folders()
}

// Reload rebuilds the catalog from the remote store. A failed fetch leaves the catalog
// empty. Selected ids that no longer exist are dropped in the same step as the load.
func (d *Desk) Reload(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	records, err := d.client.FetchAll(ctx, d.options.TypeFilter)

	d.mu.Lock()
	d.catalog.Load(records)
	pruned := d.selection.Prune(d.catalog.Contains)
	d.mu.Unlock()

	if err != nil {
		d.log.Error("Failed to load catalog: %v", err)
		return err
	}

	d.log.Info("Loaded %d assets, dropped %d stale selections", d.catalog.Len(), pruned)
	return nil
}

// Groups lists the catalog grouped by field with query applied inside each group.
func (d *Desk) Groups(ctx context.Context, by data.GroupField, query string) ([]catalog.Group, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	return d.catalog.Apply(by, query), nil
}

func (d *Desk) Search(ctx context.Context, query string) ([]*data.Asset, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	return d.catalog.Filter(query), nil
}

func (d *Desk) Asset(ctx context.Context, id string) (*data.Asset, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	asset, ok := d.catalog.Get(id)
	if !ok {
		return nil, data.ErrNotExist
	}
	return asset, nil
}

// DisplayURL returns the display URL of an asset at the configured width.
func (d *Desk) DisplayURL(ctx context.Context, id string) (string, error) {
	asset, err := d.Asset(ctx, id)
	if err != nil {
		return "", err
	}

	return d.client.BuildDisplayURL(asset.ImageRef, d.options.DisplayWidth), nil
}

// Toggle flips the selection of id, which must be in the catalog.
func (d *Desk) Toggle(ctx context.Context, id string) (bool, error) {
	if err := d.authorize(ctx); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.catalog.Contains(id) {
		return false, data.ErrNotExist
	}
	return d.selection.Toggle(id), nil
}

// Select adds ids to the selection. Nothing is selected if any id is unknown.
func (d *Desk) Select(ctx context.Context, ids ...string) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		if !d.catalog.Contains(id) {
			return data.InvalidArgument("unknown asset '%s'", id)
		}
	}

	d.selection.Select(ids...)
	return nil
}

// SelectGroup applies toggle-group semantics to the group identified by key.
func (d *Desk) SelectGroup(ctx context.Context, by data.GroupField, key string) (bool, error) {
	if err := d.authorize(ctx); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ids := d.catalog.GroupIDs(by, key)
	if len(ids) == 0 {
		return false, data.InvalidArgument("group '%s' has no assets", key)
	}

	return d.selection.SelectAllIn(ids), nil
}

func (d *Desk) IsSelected(ctx context.Context, id string) bool {
	return d.gate.Authorized(ctx) && d.selection.IsSelected(id)
}

// Selected resolves the selection against the catalog, in selection order.
func (d *Desk) Selected(ctx context.Context) ([]*data.Asset, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ids := d.selection.SelectedIDs()
	assets := make([]*data.Asset, 0, len(ids))
	for _, id := range ids {
		if asset, ok := d.catalog.Get(id); ok {
			assets = append(assets, asset)
		}
	}

	return assets, nil
}

func (d *Desk) ClearSelection(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	d.selection.Clear()
	return nil
}

func (d *Desk) Delete(ctx context.Context) (*bulk.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.log.Info("Starting delete of %d selected assets", d.selection.Len())
	return d.pipeline.Delete(ctx)
}

func (d *Desk) DeleteOne(ctx context.Context, id string) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	return d.pipeline.DeleteOne(ctx, id)
}

// Export writes the archive of all selected assets to w.
func (d *Desk) Export(ctx context.Context, w io.Writer) (*bulk.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.log.Info("Starting export of %d selected assets", d.selection.Len())
	return d.pipeline.Export(ctx, w)
}

func (d *Desk) Download(ctx context.Context) (*bulk.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.log.Info("Starting download of %d selected assets", d.selection.Len())
	return d.pipeline.Download(ctx)
}

// DownloadTo offers every selected asset as a file written into dir.
func (d *Desk) DownloadTo(ctx context.Context, dir string) (*bulk.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.log.Info("Starting download of %d selected assets into '%s'", d.selection.Len(), dir)
	return d.pipeline.DownloadWith(ctx, &bulk.DirectorySink{Dir: dir})
}

func (d *Desk) Share(ctx context.Context) (*bulk.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	d.log.Info("Starting share of %d selected assets", d.selection.Len())
	return d.pipeline.Share(ctx)
}

func (d *Desk) BeginEdit(ctx context.Context, id string) (bulk.Draft, error) {
	if err := d.authorize(ctx); err != nil {
		return bulk.Draft{}, err
	}

	return d.pipeline.BeginEdit(id)
}

func (d *Desk) UpdateDraft(ctx context.Context, draft bulk.Draft) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	return d.pipeline.UpdateDraft(draft)
}

func (d *Desk) SaveEdit(ctx context.Context) (*data.Asset, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	return d.pipeline.SaveEdit(ctx)
}

func (d *Desk) CancelEdit(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}

	d.pipeline.CancelEdit()
	return nil
}

// Editing returns the state of the edit session.
func (d *Desk) Editing() (string, bulk.Draft, bulk.EditState) {
	return d.pipeline.Editing()
}

// Edit opens an edit session for id with draft and saves it.
func (d *Desk) Edit(ctx context.Context, id string, draft bulk.Draft) (*data.Asset, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	return d.pipeline.Edit(ctx, id, draft)
}

// Upload ingests inputs and appends every created record to the catalog.
func (d *Desk) Upload(ctx context.Context, inputs []ingest.Input, meta ingest.Metadata, progress ingest.Progress) (*ingest.Result, error) {
	if err := d.authorize(ctx); err != nil {
		return nil, err
	}

	return d.ingestor.Ingest(ctx, inputs, meta, progress)
}
