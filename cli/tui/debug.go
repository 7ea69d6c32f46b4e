package tui

import (
	"sync"

	"github.com/mwantia/assetdesk/log"
)

var (
	debugMu  sync.RWMutex
	debugLog *log.Logger
)

// InitDebugLog starts writing UI traces to path. The terminal stays untouched.
func InitDebugLog(path string) {
	logger := log.NewLogger("tui", log.Debug, path, true)
	logger.TimeFormat = "15:04:05.000"

	debugMu.Lock()
	debugLog = logger
	debugMu.Unlock()

	DebugLog("=== Debug log started ===")
}

// CloseDebugLog stops tracing
func CloseDebugLog() {
	DebugLog("=== Debug log ended ===")

	debugMu.Lock()
	debugLog = nil
	debugMu.Unlock()
}

// DebugLog writes a trace line when tracing is enabled
func DebugLog(format string, args ...any) {
	debugMu.RLock()
	logger := debugLog
	debugMu.RUnlock()

	if logger != nil {
		logger.Debug(format, args...)
	}
}
