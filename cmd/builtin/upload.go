package builtin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/ingest"
)

type UploadCommand struct {
}

func (u *UploadCommand) Name() string {
	return "upload"
}

func (u *UploadCommand) Description() string {
	return "Upload images and zip archives into a folder"
}

func (u *UploadCommand) Usage() string {
	return "upload --folder f [--title t] [--tags \"a, b\"] [--category c] <file>..."
}

func (u *UploadCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("upload requires at least one file")
	}

	inputs := make([]ingest.Input, 0, len(args.Args))
	for _, path := range args.Args {
		content, err := os.ReadFile(path)
		if err != nil {
			return 1, err
		}
		inputs = append(inputs, ingest.Input{Name: filepath.Base(path), Data: content})
	}

	meta := ingest.Metadata{
		Title:    args.String("title"),
		Tags:     args.String("tags"),
		Category: args.String("category"),
		Folder:   args.String("folder"),
	}

	result, err := api.Upload(ctx, inputs, meta, func(uploaded, total int) {
		fmt.Fprintf(writer, "  %d/%d\n", uploaded, total)
	})
	if err != nil {
		if meta.Folder != "" && !api.Folders().Contains(meta.Folder) {
			fmt.Fprintf(writer, "known folders: %s\n", strings.Join(api.Folders(), "; "))
		}
		return 1, err
	}

	fmt.Fprintln(writer, result.Summary())
	for _, failure := range result.Failed {
		fmt.Fprintf(writer, "  %s: %v\n", failure.Name, failure.Err)
	}

	if len(result.Failed) > 0 {
		return 1, nil
	}
	return 0, nil
}

func (u *UploadCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"folder": {
				Name:        "folder",
				Short:       "f",
				Type:        "string",
				Required:    true,
				Description: "Folder every uploaded image is filed under",
			},
			"title": {
				Name:        "title",
				Short:       "t",
				Type:        "string",
				Description: "Title applied to every image",
			},
			"tags": {
				Name:        "tags",
				Type:        "string",
				Description: "Comma separated tags applied to every image",
			},
			"category": {
				Name:        "category",
				Short:       "c",
				Type:        "string",
				Description: "Category applied to every image",
			},
		},
	}
}
