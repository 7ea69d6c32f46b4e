package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/log"
)

// Uploader is the part of the remote store the ingestor writes to.
type Uploader interface {
	UploadBlob(ctx context.Context, content []byte, mimeHint data.ContentType) (data.ImageRef, error)
	Create(ctx context.Context, asset *data.Asset) (string, error)
}

// Sink receives every created record, e.g. the catalog.
type Sink interface {
	Upsert(record *data.Asset)
}

// Metadata is applied identically to every image of a batch. Tags is the raw
// comma-delimited input.
type Metadata struct {
	Title    string
	Tags     string
	Category string
	Folder   string
}

// Progress is called after each successful upload with a strictly increasing uploaded count.
type Progress func(uploaded, total int)

type Ingestor struct {
	uploader Uploader
	sink     Sink
	lock     sync.Locker

	folders      data.Folders
	policy       *data.ImagePolicy
	maxEntrySize int64

	log *log.Logger
}

type Option func(*Ingestor) error

func WithFolders(folders []string) Option {
	return func(in *Ingestor) error {
		if len(folders) == 0 {
			return data.InvalidArgument("empty folder list")
		}
		in.folders = data.Folders(folders)
		return nil
	}
}

func WithImagePolicy(policy *data.ImagePolicy) Option {
	return func(in *Ingestor) error {
		in.policy = policy
		return nil
	}
}

// DefaultMaxEntrySize bounds a single image extracted from an archive.
const DefaultMaxEntrySize int64 = 64 << 20

// WithMaxEntrySize rejects archives containing an image larger than size bytes.
func WithMaxEntrySize(size int64) Option {
	return func(in *Ingestor) error {
		if size <= 0 {
			return data.InvalidArgument("max entry size must be positive, got %d", size)
		}
		in.maxEntrySize = size
		return nil
	}
}

// WithLock sets the lock shared with other writers of the sink.
func WithLock(lock sync.Locker) Option {
	return func(in *Ingestor) error {
		in.lock = lock
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(in *Ingestor) error {
		in.log = logger
		return nil
	}
}

func NewIngestor(uploader Uploader, sink Sink, opts ...Option) (*Ingestor, error) {
	in := &Ingestor{
		uploader: uploader,
		sink:     sink,
		lock:     &sync.Mutex{},
		folders:  data.Folders(data.DefaultFolders),
		policy:   data.DefaultImagePolicy,
		log:      log.Discard(),

		maxEntrySize: DefaultMaxEntrySize,
	}

	for _, opt := range opts {
		if err := opt(in); err != nil {
			return nil, err
		}
	}

	return in, nil
}

func (in *Ingestor) Folders() data.Folders {
	return in.folders
}

// Ingest expands inputs and uploads every image one at a time in input order,
// creating one record per image with meta applied. The total is fixed before the
// first upload. Per-item failures are collected and never stop the batch.
func (in *Ingestor) Ingest(ctx context.Context, inputs []Input, meta Metadata, progress Progress) (*Result, error) {
	if !in.folders.Contains(meta.Folder) {
		return nil, fmt.Errorf("%w: '%s'", data.ErrUnknownFolder, meta.Folder)
	}

	items, failures := in.Expand(inputs)
	if len(items) == 0 && len(failures) == 0 {
		return nil, data.ErrEmptyBatch
	}

	result := &Result{
		Folder:  meta.Folder,
		Total:   len(items),
		Created: []*data.Asset{},
		Failed:  failures,
	}
	tags := data.ParseTags(meta.Tags)

	in.log.Info("Uploading %d images to '%s'", result.Total, meta.Folder)

	for _, item := range items {
		asset, err := in.upload(ctx, item, meta, tags)
		if err != nil {
			in.log.Warn("Failed to upload '%s': %v", item.Label(), err)
			result.Failed = append(result.Failed, Failure{Name: item.Label(), Err: err})
			continue
		}

		in.lock.Lock()
		in.sink.Upsert(asset)
		in.lock.Unlock()

		result.Created = append(result.Created, asset)
		if progress != nil {
			progress(len(result.Created), result.Total)
		}
	}

	in.log.Info("%s (%d failed)", result.Summary(), len(result.Failed))
	return result, nil
}

func (in *Ingestor) upload(ctx context.Context, item Item, meta Metadata, tags []string) (*data.Asset, error) {
	ref, err := in.uploader.UploadBlob(ctx, item.Data, data.GetMIMEType(item.Name))
	if err != nil {
		return nil, err
	}

	asset := data.NewAsset(meta.Title, tags, strings.TrimSpace(meta.Category), meta.Folder, ref)
	// the remote store assigns the identifier
	asset.ID = ""

	id, err := in.uploader.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = id

	return asset, nil
}
