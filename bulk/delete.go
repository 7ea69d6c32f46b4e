package bulk

import (
	"context"

	"github.com/mwantia/assetdesk/data"
)

// Delete removes every selected asset from the remote store, one at a time. A failing
// item never stops the batch; each success is removed from catalog and selection
// immediately. The selection is cleared once the batch has run.
func (p *Pipeline) Delete(ctx context.Context) (*Result, error) {
	assets, missing := p.resolve()
	if len(assets) == 0 && len(missing) == 0 {
		return nil, data.ErrNothingSelected
	}
	defer p.selection.Clear()

	result := newResult("delete")
	result.Failed = append(result.Failed, missing...)

	p.log.Debug("Deleting %d selected assets", len(assets))

	for _, asset := range assets {
		if err := p.remote.Delete(ctx, asset.ID); err != nil {
			p.log.Warn("Failed to delete '%s': %v", asset.ID, err)
			result.fail(asset.ID, asset.Title, err)
			continue
		}

		p.reconcile(func() {
			p.records.Remove(asset.ID)
			p.selection.Remove(asset.ID)
		})
		result.succeed(asset.ID)
	}

	p.log.Info("Delete finished: %s", result.Report())
	return result, nil
}

// DeleteOne deletes a single asset regardless of the selection. On success it is
// dropped from the catalog and, if selected, from the selection.
func (p *Pipeline) DeleteOne(ctx context.Context, id string) error {
	if _, ok := p.records.Get(id); !ok {
		return data.ErrNotExist
	}

	if err := p.remote.Delete(ctx, id); err != nil {
		return err
	}

	p.reconcile(func() {
		p.records.Remove(id)
		p.selection.Remove(id)
	})

	return nil
}
