package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/assetdesk/catalog"
	"github.com/mwantia/assetdesk/cmd"
)

type SelectCommand struct {
}

func (s *SelectCommand) Name() string {
	return "select"
}

func (s *SelectCommand) Description() string {
	return "Toggle the selection of one or more assets"
}

func (s *SelectCommand) Usage() string {
	return "select <id>..."
}

func (s *SelectCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("select requires at least one asset id")
	}

	for _, id := range args.Args {
		selected, err := api.Toggle(ctx, id)
		if err != nil {
			return 1, fmt.Errorf("%s: %w", id, err)
		}

		state := "deselected"
		if selected {
			state = "selected"
		}
		fmt.Fprintf(writer, "%s %s\n", state, id)
	}

	return 0, nil
}

func (s *SelectCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type SelectGroupCommand struct {
}

func (s *SelectGroupCommand) Name() string {
	return "select-group"
}

func (s *SelectGroupCommand) Description() string {
	return "Select every asset of a group, or deselect it if all are selected"
}

func (s *SelectGroupCommand) Usage() string {
	return "select-group [--by folder|category] [--ungrouped] <key>"
}

func (s *SelectGroupCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	ungrouped := args.Bool("ungrouped")
	if ungrouped == (len(args.Args) > 0) {
		return 2, fmt.Errorf("select-group requires either a group key or --ungrouped")
	}

	by, err := groupField(args)
	if err != nil {
		return 2, err
	}

	key, label := strings.Join(args.Args, " "), strings.Join(args.Args, " ")
	if ungrouped {
		key, label = "", catalog.UngroupedLabel
	}

	selected, err := api.SelectGroup(ctx, by, key)
	if err != nil {
		return 1, err
	}

	if selected {
		fmt.Fprintf(writer, "selected group '%s'\n", label)
	} else {
		fmt.Fprintf(writer, "deselected group '%s'\n", label)
	}

	return 0, nil
}

func (s *SelectGroupCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"by": byFlag(),
			"ungrouped": {
				Name:        "ungrouped",
				Short:       "u",
				Type:        "bool",
				Description: "Address the bucket of assets without a value for the grouping field",
			},
		},
	}
}

type SelectedCommand struct {
}

func (s *SelectedCommand) Name() string {
	return "selected"
}

func (s *SelectedCommand) Description() string {
	return "List the selected assets in selection order"
}

func (s *SelectedCommand) Usage() string {
	return "selected"
}

func (s *SelectedCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	assets, err := api.Selected(ctx)
	if err != nil {
		return 1, err
	}

	for _, asset := range assets {
		writeAsset(writer, asset, true)
	}
	fmt.Fprintf(writer, "%d selected\n", len(assets))

	return 0, nil
}

func (s *SelectedCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type ClearCommand struct {
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Clear the selection"
}

func (c *ClearCommand) Usage() string {
	return "clear"
}

func (c *ClearCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := api.ClearSelection(ctx); err != nil {
		return 1, err
	}

	fmt.Fprintln(writer, "selection cleared")
	return 0, nil
}

func (c *ClearCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
