package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/data"
)

type EditCommand struct {
}

func (e *EditCommand) Name() string {
	return "edit"
}

func (e *EditCommand) Description() string {
	return "Change title, tags or category of one asset; omitted flags keep their value"
}

func (e *EditCommand) Usage() string {
	return "edit <id> [--title t] [--tags \"a, b\"] [--category c]"
}

func (e *EditCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 2, fmt.Errorf("edit requires exactly one asset id")
	}

	draft, err := api.BeginEdit(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	if args.Has("title") {
		draft.Title = args.String("title")
	}
	if args.Has("tags") {
		draft.Tags = args.String("tags")
	}
	if args.Has("category") {
		draft.Category = args.String("category")
	}

	if err := api.UpdateDraft(ctx, draft); err != nil {
		return 1, err
	}

	updated, err := api.SaveEdit(ctx)
	if err != nil {
		// one-shot commands never leave a session open
		api.CancelEdit(ctx)
		return 1, err
	}

	fmt.Fprintf(writer, "updated %s: %s [%s] (%s)\n", updated.ID, updated.DisplayTitle(), data.JoinTags(updated.Tags), updated.Category)
	return 0, nil
}

func (e *EditCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"title": {
				Name:        "title",
				Short:       "t",
				Type:        "string",
				Description: "New title",
			},
			"tags": {
				Name:        "tags",
				Type:        "string",
				Description: "Comma separated tags",
			},
			"category": {
				Name:        "category",
				Short:       "c",
				Type:        "string",
				Description: "New category",
			},
		},
	}
}
