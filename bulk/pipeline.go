package bulk

import (
	"context"
	"sync"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/store"
	"golang.org/x/sync/errgroup"
)

// Remote is the part of the remote store the pipeline mutates and reads payloads from.
type Remote interface {
	Delete(ctx context.Context, id string) error
	Patch(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error)
	FetchDisplay(ctx context.Context, ref data.ImageRef, width int) ([]byte, error)
}

// Records is the catalog the pipeline resolves ids against and reconciles into.
type Records interface {
	Get(id string) (*data.Asset, bool)
	Upsert(record *data.Asset)
	Remove(id string) bool
}

// Selection is the id set the pipeline operates over.
type Selection interface {
	SelectedIDs() []string
	Remove(ids ...string)
	Clear()
}

// Pipeline runs bulk operations over the current selection. Each reconciliation
// step is applied while holding the shared lock, so catalog and selection change together.
type Pipeline struct {
	remote    Remote
	records   Records
	selection Selection
	lock      sync.Locker

	displayWidth int
	concurrency  int
	downloader   Downloader
	sharer       Sharer

	edit *editSession
	log  *log.Logger
}

type Option func(*Pipeline) error

// WithLock sets the lock shared with other writers of the catalog and selection.
func WithLock(lock sync.Locker) Option {
	return func(p *Pipeline) error {
		p.lock = lock
		return nil
	}
}

func WithDisplayWidth(width int) Option {
	return func(p *Pipeline) error {
		if width < 0 {
			return data.InvalidArgument("display width %d", width)
		}
		p.displayWidth = width
		return nil
	}
}

// WithFetchConcurrency allows up to n payload fetches in flight during export,
// download and share. Results are still reported in selection order.
func WithFetchConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return data.InvalidArgument("fetch concurrency %d", n)
		}
		p.concurrency = n
		return nil
	}
}

func WithDownloader(downloader Downloader) Option {
	return func(p *Pipeline) error {
		p.downloader = downloader
		return nil
	}
}

func WithSharer(sharer Sharer) Option {
	return func(p *Pipeline) error {
		p.sharer = sharer
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) error {
		p.log = logger
		return nil
	}
}

func NewPipeline(remote Remote, records Records, selection Selection, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		remote:    remote,
		records:   records,
		selection: selection,
		lock:      &sync.Mutex{},

		displayWidth: store.DefaultDisplayWidth,
		concurrency:  1,
		sharer:       UnsupportedSharer{},

		edit: &editSession{},
		log:  log.Discard(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// resolve snapshots the selection against the catalog. Ids the catalog no longer
// knows are reported as failures instead of being silently dropped.
func (p *Pipeline) resolve() ([]*data.Asset, []Failure) {
	ids := p.selection.SelectedIDs()

	assets := make([]*data.Asset, 0, len(ids))
	var missing []Failure
	for _, id := range ids {
		asset, ok := p.records.Get(id)
		if !ok {
			missing = append(missing, Failure{ID: id, Err: data.ErrNotExist})
			continue
		}
		assets = append(assets, asset)
	}

	return assets, missing
}

// reconcile applies fn as one indivisible update of catalog and selection.
func (p *Pipeline) reconcile(fn func()) {
	p.lock.Lock()
	defer p.lock.Unlock()

	fn()
}

type payload struct {
	asset   *data.Asset
	content []byte
	err     error
}

// fetchAll downloads display payloads in selection order. With a concurrency above
// one the fetches overlap, but every slot is written by exactly one goroutine.
func (p *Pipeline) fetchAll(ctx context.Context, assets []*data.Asset) []payload {
	payloads := make([]payload, len(assets))

	if p.concurrency <= 1 {
		for i, asset := range assets {
			content, err := p.remote.FetchDisplay(ctx, asset.ImageRef, p.displayWidth)
			payloads[i] = payload{asset: asset, content: content, err: err}
		}
		return payloads
	}

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, asset := range assets {
		g.Go(func() error {
			content, err := p.remote.FetchDisplay(ctx, asset.ImageRef, p.displayWidth)
			payloads[i] = payload{asset: asset, content: content, err: err}
			return nil
		})
	}

	// per-item errors live in the payloads
	_ = g.Wait()

	return payloads
}
