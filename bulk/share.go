package bulk

import (
	"context"
	"fmt"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/data/errors"
)

// ShareItem is one file handed to the share capability.
type ShareItem struct {
	Name        string
	ContentType data.ContentType
	Content     []byte
}

// Sharer is the local environment's native share capability. Share returns
// data.ErrShareCancelled when the operator backs out.
type Sharer interface {
	CanShare() bool
	Share(ctx context.Context, items []ShareItem) error
}

// UnsupportedSharer is used when the environment has no way to share files.
type UnsupportedSharer struct{}

func (UnsupportedSharer) CanShare() bool {
	return false
}

func (UnsupportedSharer) Share(ctx context.Context, items []ShareItem) error {
	return data.ErrShareUnsupported
}

// Share hands the payloads of all selected assets to the sharer as one batch. It
// succeeds or fails as a whole: an unsupported environment, any missing payload or a
// rejected share returns an error and leaves the selection untouched.
func (p *Pipeline) Share(ctx context.Context) (*Result, error) {
	assets, missing := p.resolve()
	if len(assets) == 0 && len(missing) == 0 {
		return nil, data.ErrNothingSelected
	}

	if !p.sharer.CanShare() {
		return nil, data.ErrShareUnsupported
	}

	errs := errors.Errors{}
	for _, failure := range missing {
		errs.Add(errors.ItemFailed(failure.Err, "share", failure.ID))
	}

	namer := newEntryNamer()
	items := make([]ShareItem, 0, len(assets))
	result := newResult("share")

	for _, item := range p.fetchAll(ctx, assets) {
		if item.err != nil {
			errs.Add(errors.ItemFailed(item.err, "share", item.asset.ID))
			continue
		}

		name := namer.Name(item.asset)
		items = append(items, ShareItem{
			Name:        name,
			ContentType: data.GetMIMEType(name),
			Content:     item.content,
		})
		result.succeed(item.asset.ID)
	}

	if err := errs.Errors(); err != nil {
		return nil, fmt.Errorf("share aborted: %w", err)
	}

	if err := p.sharer.Share(ctx, items); err != nil {
		p.log.Warn("Share of %d assets failed: %v", len(items), err)
		return nil, err
	}

	p.selection.Clear()
	p.log.Info("Shared %d assets", len(items))

	return result, nil
}
