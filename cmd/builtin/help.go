package builtin

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/mwantia/assetdesk/cmd"
)

type HelpCommand struct {
	Manager *cmd.CommandManager
}

func (h *HelpCommand) Name() string {
	return "help"
}

func (h *HelpCommand) Description() string {
	return "Show available commands or the flags of one command"
}

func (h *HelpCommand) Usage() string {
	return "help [command]"
}

func (h *HelpCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		for _, command := range h.Manager.List() {
			fmt.Fprintf(writer, "  %-14s %s\n", command.Name(), command.Description())
		}
		return 0, nil
	}

	command, err := h.Manager.Get(args.Args[0])
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "usage: %s\n%s\n", command.Usage(), command.Description())

	flags := command.GetFlags()
	if flags == nil {
		return 0, nil
	}

	names := make([]string, 0, len(flags.Flags))
	for name := range flags.Flags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		flag := flags.Flags[name]
		short := "   "
		if flag.Short != "" {
			short = "-" + flag.Short + ","
		}
		required := ""
		if flag.Required {
			required = " (required)"
		}
		fmt.Fprintf(writer, "  %s --%-10s %s%s\n", short, flag.Name, flag.Description, required)
	}

	return 0, nil
}

func (h *HelpCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
