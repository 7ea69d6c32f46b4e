package data

import (
	"errors"
	"fmt"
)

var (
	// Record errors
	ErrNotExist   = errors.New("assetdesk: record does not exist")
	ErrExist      = errors.New("assetdesk: record already exists")
	ErrInvalid    = errors.New("assetdesk: invalid argument")
	ErrInvalidRef = errors.New("assetdesk: malformed image reference")

	// Backend errors
	ErrBackendUnsupported = errors.New("assetdesk: backend capability unsupported")
	ErrBackendClosed      = errors.New("assetdesk: backend not open")
	ErrObjectTooLarge     = errors.New("assetdesk: object exceeds backend size limit")

	// Operation errors
	ErrUnauthorized     = errors.New("assetdesk: operator not authorized")
	ErrNothingSelected  = errors.New("assetdesk: nothing selected")
	ErrShareUnsupported = errors.New("assetdesk: sharing not supported in this environment")
	ErrShareCancelled   = errors.New("assetdesk: sharing cancelled")
	ErrNoEditSession    = errors.New("assetdesk: no edit session open")
	ErrUnknownFolder    = errors.New("assetdesk: unknown folder")
	ErrUnsupportedInput = errors.New("assetdesk: unsupported input file")
	ErrEmptyBatch       = errors.New("assetdesk: no images to upload")
)

// InvalidArgument wraps ErrInvalid with a formatted detail.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
