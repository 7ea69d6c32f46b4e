package bulk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwantia/assetdesk/data"
)

// Downloader offers individual files to the local environment.
type Downloader interface {
	Offer(ctx context.Context, name string, content []byte) error
}

// DirectorySink offers files by writing them into Dir. Existing files are never
// overwritten; a numeric suffix is appended instead.
type DirectorySink struct {
	Dir string
}

func (s *DirectorySink) Offer(ctx context.Context, name string, content []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := os.OpenFile(filepath.Join(s.Dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
			continue
		}
		if err != nil {
			return err
		}

		if _, err := f.Write(content); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// Download offers every selected asset as its own file through the configured downloader.
func (p *Pipeline) Download(ctx context.Context) (*Result, error) {
	return p.DownloadWith(ctx, p.downloader)
}

// DownloadWith offers every selected asset to downloader. Fetch and offer failures are
// reported per asset; the selection is cleared once the batch has run.
func (p *Pipeline) DownloadWith(ctx context.Context, downloader Downloader) (*Result, error) {
	if downloader == nil {
		return nil, fmt.Errorf("%w: no downloader configured", data.ErrBackendUnsupported)
	}

	assets, missing := p.resolve()
	if len(assets) == 0 && len(missing) == 0 {
		return nil, data.ErrNothingSelected
	}
	defer p.selection.Clear()

	result := newResult("download")
	result.Failed = append(result.Failed, missing...)

	namer := newEntryNamer()
	for _, item := range p.fetchAll(ctx, assets) {
		if item.err != nil {
			p.log.Warn("Failed to fetch '%s' for download: %v", item.asset.ID, item.err)
			result.fail(item.asset.ID, item.asset.Title, item.err)
			continue
		}

		if err := downloader.Offer(ctx, namer.Name(item.asset), item.content); err != nil {
			p.log.Warn("Failed to offer '%s': %v", item.asset.ID, err)
			result.fail(item.asset.ID, item.asset.Title, err)
			continue
		}

		result.succeed(item.asset.ID)
	}

	p.log.Info("Download finished: %s", result.Report())
	return result, nil
}
