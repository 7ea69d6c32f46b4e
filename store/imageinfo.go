package store

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/mwantia/assetdesk/data"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what the store needs to know about a payload to reference it.
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// DescribeImage decodes only the image header. Undecodable payloads fall back to the
// format implied by the MIME hint and report zero dimensions.
func DescribeImage(content []byte, mimeHint data.ContentType) ImageInfo {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err == nil {
		if format == "jpeg" {
			format = "jpg"
		}
		return ImageInfo{
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: format,
		}
	}

	format, ok := data.MIMEToFormat[mimeHint]
	if !ok {
		format = "jpg"
	}

	return ImageInfo{Format: format}
}
