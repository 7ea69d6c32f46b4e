package ingest

import (
	"bytes"
	"fmt"
	"io"
	"path"

	"github.com/klauspost/compress/zip"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/data/errors"
)

// Input is one file handed to the ingestor, either an image or a zip archive.
type Input struct {
	Name string
	Data []byte
}

// Item is a single image ready for upload.
type Item struct {
	Name string
	Data []byte

	// Archive is the name of the input the item was extracted from, if any
	Archive string
}

// Label identifies the item in reports.
func (i Item) Label() string {
	if i.Archive == "" {
		return i.Name
	}
	return i.Archive + ":" + i.Name
}

// Expand turns inputs into upload items in input order. Archive entries that are
// not images are skipped; unreadable archives and non-image direct inputs are failures.
func (in *Ingestor) Expand(inputs []Input) ([]Item, []Failure) {
	var items []Item
	var failures []Failure

	for _, input := range inputs {
		if data.IsArchive(input.Name, input.Data) {
			extracted, err := in.expandArchive(input)
			if err != nil {
				failures = append(failures, Failure{Name: input.Name, Err: errors.InputFailed(err, input.Name)})
				continue
			}
			items = append(items, extracted...)
			continue
		}

		if !in.policy.Matches(input.Name) {
			failures = append(failures, Failure{Name: input.Name, Err: errors.InputFailed(data.ErrUnsupportedInput, input.Name)})
			continue
		}

		items = append(items, Item{Name: input.Name, Data: input.Data})
	}

	return items, failures
}

func (in *Ingestor) expandArchive(input Input) ([]Item, error) {
	reader, err := zip.NewReader(bytes.NewReader(input.Data), int64(len(input.Data)))
	if err != nil {
		return nil, err
	}

	var items []Item
	skipped := 0

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !in.policy.Matches(file.Name) {
			skipped++
			continue
		}
		if file.UncompressedSize64 > uint64(in.maxEntrySize) {
			return nil, fmt.Errorf("%w: entry '%s' is %d bytes", data.ErrObjectTooLarge, file.Name, file.UncompressedSize64)
		}

		content, err := readEntry(file, in.maxEntrySize)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry '%s': %w", file.Name, err)
		}

		items = append(items, Item{
			Name:    path.Base(file.Name),
			Data:    content,
			Archive: input.Name,
		})
	}

	in.log.Debug("Expanded '%s' into %d images, skipped %d entries", input.Name, len(items), skipped)
	return items, nil
}

// readEntry reads at most limit bytes; the header size is not trusted.
func readEntry(file *zip.File, limit int64) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", data.ErrObjectTooLarge, limit)
	}

	return content, nil
}
