package data

import (
	"fmt"
	"strconv"
	"strings"
)

// ImageRef is the opaque reference to a stored image payload, formatted as
// `image-<hash>-<width>x<height>-<format>`.
type ImageRef string

// NewImageRef builds a reference from its parts. The format is stored without a leading dot.
func NewImageRef(hash string, width, height int, format string) ImageRef {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	return ImageRef(fmt.Sprintf("image-%s-%dx%d-%s", hash, width, height, format))
}

// ImageRefParts is the decoded form of an ImageRef.
type ImageRefParts struct {
	Hash   string
	Width  int
	Height int
	Format string
}

// Parse decodes the reference; malformed references return ErrInvalidRef.
func (r ImageRef) Parse() (*ImageRefParts, error) {
	parts := strings.Split(string(r), "-")
	if len(parts) != 4 || parts[0] != "image" || parts[1] == "" || parts[3] == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRef, r)
	}

	dims := strings.SplitN(parts[2], "x", 2)
	if len(dims) != 2 {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRef, r)
	}

	width, err := strconv.Atoi(dims[0])
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRef, r)
	}
	height, err := strconv.Atoi(dims[1])
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRef, r)
	}

	return &ImageRefParts{
		Hash:   parts[1],
		Width:  width,
		Height: height,
		Format: parts[3],
	}, nil
}

// Extension returns the file extension for the referenced payload, defaulting to ".jpg".
func (r ImageRef) Extension() string {
	parts, err := r.Parse()
	if err != nil {
		return ".jpg"
	}

	return "." + parts.Format
}

// BlobKey is the key the payload is stored under in a blob backend.
func (r ImageRef) BlobKey() string {
	parts, err := r.Parse()
	if err != nil {
		return string(r)
	}

	return fmt.Sprintf("images/%s-%dx%d.%s", parts.Hash, parts.Width, parts.Height, parts.Format)
}
