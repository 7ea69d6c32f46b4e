package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/data/errors"
	"github.com/mwantia/assetdesk/log"
)

// Client is the single entrypoint to the remote store: asset documents live in a
// RecordBackend, payloads in a BlobBackend. Both may be the same instance.
type Client struct {
	records RecordBackend
	blobs   BlobBackend
	urls    *URLBuilder
	fetcher Fetcher
	log     *log.Logger
}

type ClientOption func(*Client) error

func WithURLBuilder(urls *URLBuilder) ClientOption {
	return func(c *Client) error {
		c.urls = urls
		return nil
	}
}

func WithFetcher(fetcher Fetcher) ClientOption {
	return func(c *Client) error {
		c.fetcher = fetcher
		return nil
	}
}

// WithHTTPFetcher fetches display payloads over HTTP using the client's URL builder.
// Must be passed after WithURLBuilder when both are used.
func WithHTTPFetcher() ClientOption {
	return func(c *Client) error {
		c.fetcher = NewHTTPFetcher(c.urls)
		return nil
	}
}

func WithClientLogger(logger *log.Logger) ClientOption {
	return func(c *Client) error {
		c.log = logger
		return nil
	}
}

func NewClient(records RecordBackend, blobs BlobBackend, opts ...ClientOption) (*Client, error) {
	if records == nil || !records.GetCapabilities().Contains(CapabilityRecords) {
		return nil, errors.BackendUnsupported(data.ErrBackendUnsupported, "records")
	}
	if blobs == nil || !blobs.GetCapabilities().Contains(CapabilityBlobs) {
		return nil, errors.BackendUnsupported(data.ErrBackendUnsupported, "blobs")
	}

	c := &Client{
		records: records,
		blobs:   blobs,
		urls:    NewURLBuilder("", "", ""),
		log:     log.Discard(),
	}
	c.fetcher = NewBlobFetcher(blobs)

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Open opens both backends, once if they are the same instance.
func (c *Client) Open(ctx context.Context) error {
	if err := c.records.Open(ctx); err != nil {
		return errors.BackendOpen(err, c.records.Name())
	}

	if c.sharedBackend() {
		return nil
	}

	if err := c.blobs.Open(ctx); err != nil {
		return errors.BackendOpen(err, c.blobs.Name())
	}

	return nil
}

func (c *Client) Close(ctx context.Context) error {
	errs := errors.Errors{}
	errs.Add(c.records.Close(ctx))
	if !c.sharedBackend() {
		errs.Add(c.blobs.Close(ctx))
	}

	return errs.Errors()
}

func (c *Client) Health() bool {
	return c.records.Health() && c.blobs.Health()
}

func (c *Client) sharedBackend() bool {
	return any(c.records) == any(c.blobs)
}

// FetchAll returns every record of the given type in creation order.
func (c *Client) FetchAll(ctx context.Context, typeFilter string) ([]*data.Asset, error) {
	records, err := c.records.QueryRecords(ctx, &RecordQuery{Type: typeFilter})
	if err != nil {
		return nil, fmt.Errorf("fetch all '%s': %w", typeFilter, err)
	}

	for _, record := range records {
		record.Normalize()
	}

	c.log.Debug("Fetched %d records of type '%s' from %s", len(records), typeFilter, c.records.Name())
	return records, nil
}

// Create persists the record and returns the identifier the backend assigned.
func (c *Client) Create(ctx context.Context, asset *data.Asset) (string, error) {
	asset.Normalize()
	if err := c.records.CreateRecord(ctx, asset); err != nil {
		return "", errors.RecordFailed(err, "create", asset.ID)
	}

	return asset.ID, nil
}

func (c *Client) Patch(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	updated, err := c.records.PatchRecord(ctx, id, patch)
	if err != nil {
		return nil, errors.RecordFailed(err, "patch", id)
	}

	return updated.Normalize(), nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.records.DeleteRecord(ctx, id); err != nil {
		return errors.RecordFailed(err, "delete", id)
	}

	return nil
}

// UploadBlob stores content addressed by its SHA-1 and returns the resulting reference.
// Identical payloads map to the same reference and are stored once.
func (c *Client) UploadBlob(ctx context.Context, content []byte, mimeHint data.ContentType) (data.ImageRef, error) {
	if limit := c.blobs.GetCapabilities().MaxObjectSize; limit > 0 && int64(len(content)) > limit {
		return "", fmt.Errorf("%w: %d > %d bytes", data.ErrObjectTooLarge, len(content), limit)
	}

	sum := sha1.Sum(content)
	info := DescribeImage(content, mimeHint)
	ref := data.NewImageRef(hex.EncodeToString(sum[:]), info.Width, info.Height, info.Format)
	key := ref.BlobKey()

	exists, err := c.blobs.ExistsBlob(ctx, key)
	if err != nil {
		return "", errors.BlobFailed(err, "stat", key)
	}
	if exists {
		c.log.Debug("Blob '%s' already stored, reusing reference", key)
		return ref, nil
	}

	contentType := mimeHint
	if contentType == "" || contentType == data.ContentTypeApplicationStream {
		contentType = data.GetMIMEType(key)
	}

	if err := c.blobs.PutBlob(ctx, key, content, contentType); err != nil {
		return "", errors.BlobFailed(err, "upload", key)
	}

	return ref, nil
}

// BuildDisplayURL is pure; malformed references yield an empty string.
func (c *Client) BuildDisplayURL(ref data.ImageRef, width int) string {
	u, err := c.urls.Build(ref, width)
	if err != nil {
		return ""
	}

	return u
}

// FetchDisplay returns the display-resolution payload for ref.
func (c *Client) FetchDisplay(ctx context.Context, ref data.ImageRef, width int) ([]byte, error) {
	content, err := c.fetcher.Fetch(ctx, ref, width)
	if err != nil {
		return nil, errors.BlobFailed(err, "fetch", string(ref))
	}

	return content, nil
}
