package builtin

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/data"
)

// InitBuiltin registers every builtin command with the manager.
func InitBuiltin(manager *cmd.CommandManager) error {
	commands := []cmd.Command{
		&LsCommand{},
		&SearchCommand{},
		&ReloadCommand{},
		&SelectCommand{},
		&SelectGroupCommand{},
		&SelectedCommand{},
		&ClearCommand{},
		&DeleteCommand{},
		&ExportCommand{},
		&DownloadCommand{},
		&ShareCommand{},
		&EditCommand{},
		&UploadCommand{},
		&HelpCommand{Manager: manager},
	}

	for _, command := range commands {
		if err := manager.Register(command); err != nil {
			return err
		}
	}

	return nil
}

func writeAsset(w io.Writer, asset *data.Asset, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}

	line := fmt.Sprintf("%s %s  %s", marker, asset.ID, asset.DisplayTitle())
	if len(asset.Tags) > 0 {
		line += fmt.Sprintf("  [%s]", strings.Join(asset.Tags, ", "))
	}
	if asset.Category != "" {
		line += fmt.Sprintf("  (%s)", asset.Category)
	}

	fmt.Fprintln(w, line)
}

// writeResult prints the summary and every failure of a bulk operation.
// Returns exit code 1 when at least one item failed.
func writeResult(w io.Writer, result *bulk.Result) int {
	fmt.Fprintf(w, "%s: %s\n", result.Operation, result.Report())
	for _, failure := range result.Failed {
		fmt.Fprintf(w, "  %s\n", failure.Error())
	}

	if !result.OK() {
		return 1
	}
	return 0
}

func groupField(args *cmd.CommandArgs) (data.GroupField, error) {
	return data.ParseGroupField(args.String("by"))
}

func byFlag() *cmd.CommandFlag {
	return &cmd.CommandFlag{
		Name:        "by",
		Short:       "b",
		Type:        "string",
		Default:     string(data.GroupByFolder),
		Description: "Group by 'folder' or 'category'",
	}
}
