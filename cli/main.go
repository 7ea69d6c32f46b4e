package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/assetdesk/cmd"
	"github.com/mwantia/assetdesk/cmd/builtin"
	"github.com/mwantia/assetdesk/session"
	"github.com/spf13/cobra"

	"github.com/mwantia/assetdesk/cli/tui"
)

type rootFlags struct {
	config   string
	records  string
	blobs    string
	logLevel string
	logFile  string
	debug    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		var code exitError
		if errors.As(err, &code) {
			return int(code)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "assetdesk",
		Short:         "Browse, select and bulk-manage image assets of a remote store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runConsole(c.Context(), flags)
		},
	}

	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "assetdesk.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&flags.records, "records", "", "record store address (overrides config)")
	root.PersistentFlags().StringVar(&flags.blobs, "blobs", "", "blob store address (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file")

	console := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive asset browser.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConsole(c.Context(), flags)
		},
	}
	console.Flags().BoolVar(&flags.debug, "debug", false, "write UI traces to debug.log")

	var email string
	exec := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single desk command, e.g. 'exec ls --by category'.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExec(c.Context(), flags, email, args)
		},
	}
	// flags after the command name belong to the desk command
	exec.Flags().SetInterspersed(false)
	exec.Flags().StringVar(&email, "email", os.Getenv("ASSETDESK_EMAIL"), "sign in as this user; the password is read from ASSETDESK_PASSWORD")

	hash := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for a users entry of the config file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runHashPassword(c, args)
		},
	}

	root.AddCommand(console, exec, hash)
	return root
}

func loadConfig(flags *rootFlags) (*Config, error) {
	cfg, err := LoadConfig(flags.config)
	if err != nil {
		return nil, err
	}

	if flags.records != "" {
		cfg.Records = flags.records
	}
	if flags.blobs != "" {
		cfg.Blobs = flags.blobs
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}

	return cfg, nil
}

func runConsole(ctx context.Context, flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if flags.debug {
		tui.InitDebugLog("debug.log")
		defer tui.CloseDebugLog()
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}

	gate := newGate(cfg, logger)
	desk, err := openDesk(ctx, cfg, gate, logger)
	if err != nil {
		return err
	}
	defer desk.Close(context.Background())

	manager := cmd.NewCommandManager(desk)
	if err := builtin.InitBuiltin(manager); err != nil {
		return fmt.Errorf("failed to setup commands: %w", err)
	}

	var login tui.Login
	if credentials, ok := gate.(*session.CredentialGate); ok {
		login = credentials
	}

	model := tui.NewModel(ctx, desk, manager, login)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

func runExec(ctx context.Context, flags *rootFlags, email string, args []string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	gate := newGate(cfg, logger)
	if credentials, ok := gate.(*session.CredentialGate); ok {
		if _, err := credentials.Login(email, os.Getenv("ASSETDESK_PASSWORD")); err != nil {
			return err
		}
	}

	desk, err := openDesk(ctx, cfg, gate, logger)
	if err != nil {
		return err
	}
	defer desk.Close(context.Background())

	if err := desk.Reload(ctx); err != nil {
		return err
	}

	manager := cmd.NewCommandManager(desk)
	if err := builtin.InitBuiltin(manager); err != nil {
		return fmt.Errorf("failed to setup commands: %w", err)
	}

	code, err := manager.Execute(ctx, os.Stdout, args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return exitError(code)
	}

	return nil
}

func runHashPassword(c *cobra.Command, args []string) error {
	password := ""
	if len(args) > 0 {
		password = args[0]
	} else {
		fmt.Fprint(c.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(c.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.OutOrStdout(), hash)
	return nil
}

type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("command exited with code %d", int(e))
}
