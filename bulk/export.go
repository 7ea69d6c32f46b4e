package bulk

import (
	"context"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/mwantia/assetdesk/data"
)

// Export bundles the display payload of every selected asset into one zip archive
// written to w. Assets whose payload cannot be fetched are reported and left out;
// the archive still holds all others. A write failure on w aborts the export.
func (p *Pipeline) Export(ctx context.Context, w io.Writer) (*Result, error) {
	assets, missing := p.resolve()
	if len(assets) == 0 && len(missing) == 0 {
		return nil, data.ErrNothingSelected
	}
	defer p.selection.Clear()

	result := newResult("export")
	result.Artifact = ArchiveName
	result.Failed = append(result.Failed, missing...)

	namer := newEntryNamer()
	archive := zip.NewWriter(w)

	for _, item := range p.fetchAll(ctx, assets) {
		if item.err != nil {
			p.log.Warn("Failed to fetch '%s' for export: %v", item.asset.ID, item.err)
			result.fail(item.asset.ID, item.asset.Title, item.err)
			continue
		}

		entry, err := archive.CreateHeader(&zip.FileHeader{
			Name:     namer.Name(item.asset),
			Method:   zip.Store,
			Modified: item.asset.ModifyTime,
		})
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(item.content); err != nil {
			return nil, err
		}

		result.succeed(item.asset.ID)
	}

	if err := archive.Close(); err != nil {
		return nil, err
	}

	p.log.Info("Export finished: %s", result.Report())
	return result, nil
}
