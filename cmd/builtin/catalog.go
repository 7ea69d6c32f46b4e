package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/assetdesk/cmd"
)

type LsCommand struct {
}

// Name returns the command identifier
func (ls *LsCommand) Name() string {
	return "ls"
}

// Description returns human-readable help text
func (ls *LsCommand) Description() string {
	return "List assets grouped by folder or category"
}

// Usage returns a usage string for help
func (ls *LsCommand) Usage() string {
	return "ls [--by folder|category] [--query q]"
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	by, err := groupField(args)
	if err != nil {
		return 2, err
	}

	groups, err := api.Groups(ctx, by, args.String("query"))
	if err != nil {
		return 1, err
	}

	for _, group := range groups {
		fmt.Fprintf(writer, "%s (%d)\n", group.Label(), len(group.Assets))
		for _, asset := range group.Assets {
			writeAsset(writer, asset, api.IsSelected(ctx, asset.ID))
		}
	}

	return 0, nil
}

// GetFlags returns the flag set for this command
func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"by": byFlag(),
			"query": {
				Name:        "query",
				Short:       "q",
				Type:        "string",
				Description: "Only show assets matching this text",
			},
		},
	}
}

type SearchCommand struct {
}

func (s *SearchCommand) Name() string {
	return "search"
}

func (s *SearchCommand) Description() string {
	return "Find assets by title, tag or category"
}

func (s *SearchCommand) Usage() string {
	return "search <text>"
}

func (s *SearchCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	assets, err := api.Search(ctx, strings.Join(args.Args, " "))
	if err != nil {
		return 1, err
	}

	for _, asset := range assets {
		writeAsset(writer, asset, api.IsSelected(ctx, asset.ID))
	}
	fmt.Fprintf(writer, "%d matches\n", len(assets))

	return 0, nil
}

func (s *SearchCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type ReloadCommand struct {
}

func (r *ReloadCommand) Name() string {
	return "reload"
}

func (r *ReloadCommand) Description() string {
	return "Reload the catalog from the remote store"
}

func (r *ReloadCommand) Usage() string {
	return "reload"
}

func (r *ReloadCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := api.Reload(ctx); err != nil {
		return 1, err
	}

	assets, err := api.Search(ctx, "")
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "Loaded %d assets\n", len(assets))
	return 0, nil
}

func (r *ReloadCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
