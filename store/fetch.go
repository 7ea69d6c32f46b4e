package store

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/mwantia/assetdesk/data"
)

// Fetcher retrieves the display-resolution payload of an image.
type Fetcher interface {
	Fetch(ctx context.Context, ref data.ImageRef, width int) ([]byte, error)
}

// BlobFetcher reads payloads straight from a blob backend. Width is ignored since
// resizing is the remote store's concern.
type BlobFetcher struct {
	blobs BlobBackend
}

func NewBlobFetcher(blobs BlobBackend) *BlobFetcher {
	return &BlobFetcher{blobs: blobs}
}

func (bf *BlobFetcher) Fetch(ctx context.Context, ref data.ImageRef, width int) ([]byte, error) {
	return bf.blobs.GetBlob(ctx, ref.BlobKey())
}

// HTTPFetcher downloads display URLs, e.g. from an image CDN.
type HTTPFetcher struct {
	client *http.Client
	urls   *URLBuilder
}

func NewHTTPFetcher(urls *URLBuilder) *HTTPFetcher {
	return &HTTPFetcher{
		client: cleanhttp.DefaultPooledClient(),
		urls:   urls,
	}
}

func (hf *HTTPFetcher) Fetch(ctx context.Context, ref data.ImageRef, width int) ([]byte, error) {
	u, err := hf.urls.Build(ref, width)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := hf.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, u)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch '%s': unexpected status %s", u, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
