package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/data"
)

type DeleteCommand struct {
}

func (d *DeleteCommand) Name() string {
	return "delete"
}

func (d *DeleteCommand) Description() string {
	return "Delete the selected assets, or a single asset by id"
}

func (d *DeleteCommand) Usage() string {
	return "delete [id]"
}

func (d *DeleteCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) > 0 {
		id := args.Args[0]
		if err := api.DeleteOne(ctx, id); err != nil {
			return 1, err
		}

		fmt.Fprintf(writer, "deleted %s\n", id)
		return 0, nil
	}

	result, err := api.Delete(ctx)
	if err != nil {
		return nothingSelected(writer, err)
	}

	return writeResult(writer, result), nil
}

func (d *DeleteCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type ExportCommand struct {
}

func (e *ExportCommand) Name() string {
	return "export"
}

func (e *ExportCommand) Description() string {
	return "Bundle the selected assets into one zip archive"
}

func (e *ExportCommand) Usage() string {
	return "export [file]"
}

func (e *ExportCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	path := bulk.ArchiveName
	if len(args.Args) > 0 {
		path = args.Args[0]
	}

	// a failed export leaves no partial archive at path
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.zip")
	if err != nil {
		return 1, err
	}
	defer os.Remove(tmp.Name())

	result, err := api.Export(ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nothingSelected(writer, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "wrote %s\n", path)
	return writeResult(writer, result), nil
}

func (e *ExportCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type DownloadCommand struct {
}

func (d *DownloadCommand) Name() string {
	return "download"
}

func (d *DownloadCommand) Description() string {
	return "Save every selected asset as its own file, into dir or the configured download target"
}

func (d *DownloadCommand) Usage() string {
	return "download [dir]"
}

func (d *DownloadCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	var result *bulk.Result
	var err error
	if len(args.Args) > 0 {
		result, err = api.DownloadTo(ctx, args.Args[0])
	} else {
		result, err = api.Download(ctx)
	}
	if err != nil {
		return nothingSelected(writer, err)
	}

	return writeResult(writer, result), nil
}

func (d *DownloadCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type ShareCommand struct {
}

func (s *ShareCommand) Name() string {
	return "share"
}

func (s *ShareCommand) Description() string {
	return "Hand the selected assets to the share target as one batch"
}

func (s *ShareCommand) Usage() string {
	return "share"
}

func (s *ShareCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	result, err := api.Share(ctx)
	if err != nil {
		return nothingSelected(writer, err)
	}

	fmt.Fprintf(writer, "shared %d assets\n", len(result.Succeeded))
	return 0, nil
}

func (s *ShareCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// nothingSelected reports an empty selection as a notice instead of a failure.
func nothingSelected(writer io.Writer, err error) (int, error) {
	if errors.Is(err, data.ErrNothingSelected) {
		fmt.Fprintln(writer, "nothing selected")
		return 0, nil
	}

	return 1, err
}
