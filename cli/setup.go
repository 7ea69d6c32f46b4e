package main

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/assetdesk"
	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/session"
	"github.com/mwantia/assetdesk/store"
	"github.com/mwantia/assetdesk/store/address"
)

// newLogger builds the process logger. A logger without terminal output and
// without a log file discards everything.
func newLogger(cfg *Config, noTerminal bool) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	noTerminal = noTerminal || cfg.Log.NoTerminal
	if noTerminal && cfg.Log.File == "" {
		return log.NewWriterLogger("assetdesk", level, io.Discard), nil
	}

	logger := log.NewLogger("assetdesk", level, cfg.Log.File, noTerminal)
	logger.JSON = cfg.Log.JSON
	return logger, nil
}

// newGate returns a credential gate when users are configured, an open gate otherwise.
func newGate(cfg *Config, logger *log.Logger) session.Gate {
	if len(cfg.Users) == 0 {
		return session.StaticGate(true)
	}

	return session.NewCredentialGate(cfg.Users, logger.Named("session"))
}

func newClient(ctx context.Context, cfg *Config, logger *log.Logger) (*store.Client, error) {
	records, blobs, err := address.ParseStoreAddresses(ctx, cfg.Records, cfg.Blobs)
	if err != nil {
		return nil, err
	}

	opts := []store.ClientOption{
		store.WithURLBuilder(store.NewURLBuilder(cfg.CDN.URL, cfg.CDN.Project, cfg.CDN.Dataset)),
		store.WithClientLogger(logger.Named("store")),
	}
	if cfg.CDN.Fetch {
		opts = append(opts, store.WithHTTPFetcher())
	}

	return store.NewClient(records, blobs, opts...)
}

// openDesk connects the store and returns an opened desk. The catalog is
// loaded separately once the gate is open.
func openDesk(ctx context.Context, cfg *Config, gate session.Gate, logger *log.Logger) (*assetdesk.Desk, error) {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []assetdesk.DeskOption{
		assetdesk.WithLogger(logger),
		assetdesk.WithGate(gate),
		assetdesk.WithDisplayWidth(cfg.DisplayWidth),
		assetdesk.WithFetchConcurrency(cfg.FetchConcurrency),
		assetdesk.WithDownloader(&bulk.DirectorySink{Dir: cfg.DownloadDir}),
	}
	if len(cfg.Folders) > 0 {
		opts = append(opts, assetdesk.WithFolders(cfg.Folders...))
	}
	if cfg.TypeFilter != "" {
		opts = append(opts, assetdesk.WithTypeFilter(cfg.TypeFilter))
	}
	if cfg.MaxEntrySize > 0 {
		opts = append(opts, assetdesk.WithMaxEntrySize(cfg.MaxEntrySize))
	}

	desk, err := assetdesk.New(client, opts...)
	if err != nil {
		return nil, err
	}

	if err := desk.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return desk, nil
}
