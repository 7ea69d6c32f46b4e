package assetdesk

import (
	"github.com/mwantia/assetdesk/bulk"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/ingest"
	"github.com/mwantia/assetdesk/log"
	"github.com/mwantia/assetdesk/session"
	"github.com/mwantia/assetdesk/store"
)

type DeskOptions struct {
	LogLevel      log.Level
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	Gate       session.Gate
	Sharer     bulk.Sharer
	Downloader bulk.Downloader

	Folders          []string
	TypeFilter       string
	DisplayWidth     int
	FetchConcurrency int
	MaxEntrySize     int64
}

type DeskOption func(*DeskOptions) error

func newDefaultDeskOptions() *DeskOptions {
	return &DeskOptions{
		LogLevel:         log.Info,
		Gate:             session.StaticGate(true),
		Sharer:           bulk.UnsupportedSharer{},
		Folders:          data.DefaultFolders,
		TypeFilter:       data.DefaultAssetType,
		DisplayWidth:     store.DefaultDisplayWidth,
		FetchConcurrency: 1,
		MaxEntrySize:     ingest.DefaultMaxEntrySize,
	}
}

func WithLogLevel(logLevel log.Level) DeskOption {
	return func(opts *DeskOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() DeskOption {
	return func(opts *DeskOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) DeskOption {
	return func(opts *DeskOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger built from level, file and terminal options.
func WithLogger(logger *log.Logger) DeskOption {
	return func(opts *DeskOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithGate(gate session.Gate) DeskOption {
	return func(opts *DeskOptions) error {
		if gate == nil {
			return data.InvalidArgument("nil gate")
		}
		opts.Gate = gate
		return nil
	}
}

func WithSharer(sharer bulk.Sharer) DeskOption {
	return func(opts *DeskOptions) error {
		opts.Sharer = sharer
		return nil
	}
}

func WithDownloader(downloader bulk.Downloader) DeskOption {
	return func(opts *DeskOptions) error {
		opts.Downloader = downloader
		return nil
	}
}

func WithFolders(folders ...string) DeskOption {
	return func(opts *DeskOptions) error {
		if len(folders) == 0 {
			return data.InvalidArgument("empty folder list")
		}
		opts.Folders = folders
		return nil
	}
}

func WithTypeFilter(typeFilter string) DeskOption {
	return func(opts *DeskOptions) error {
		opts.TypeFilter = typeFilter
		return nil
	}
}

func WithDisplayWidth(width int) DeskOption {
	return func(opts *DeskOptions) error {
		opts.DisplayWidth = width
		return nil
	}
}

func WithFetchConcurrency(n int) DeskOption {
	return func(opts *DeskOptions) error {
		opts.FetchConcurrency = n
		return nil
	}
}

// WithMaxEntrySize limits the size of a single image extracted from an uploaded archive.
func WithMaxEntrySize(size int64) DeskOption {
	return func(opts *DeskOptions) error {
		opts.MaxEntrySize = size
		return nil
	}
}
