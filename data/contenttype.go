package data

import (
	"bytes"
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeImageJPEG         ContentType = "image/jpeg"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageGIF          ContentType = "image/gif"
	ContentTypeImageWebP         ContentType = "image/webp"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationStream ContentType = "application/octet-stream"
)

// ExtensionToMIME maps the extensions the catalog deals with to MIME types.
var ExtensionToMIME = map[string]ContentType{
	".jpg":  ContentTypeImageJPEG,
	".jpeg": ContentTypeImageJPEG,
	".png":  ContentTypeImagePNG,
	".gif":  ContentTypeImageGIF,
	".webp": ContentTypeImageWebP,
	".zip":  ContentTypeApplicationZip,
}

// MIMEToFormat is the image format token stored inside an ImageRef.
var MIMEToFormat = map[ContentType]string{
	ContentTypeImageJPEG: "jpg",
	ContentTypeImagePNG:  "png",
	ContentTypeImageGIF:  "gif",
	ContentTypeImageWebP: "webp",
}

// GetMIMEType returns the MIME type for a file name, octet-stream when unknown.
func GetMIMEType(name string) ContentType {
	ext := strings.ToLower(path.Ext(name))
	if mimeType, exists := ExtensionToMIME[ext]; exists {
		return mimeType
	}

	return ContentTypeApplicationStream
}

// ImagePolicy decides which file names count as images.
type ImagePolicy struct {
	Extensions []string
}

// DefaultImagePolicy recognises jpg, jpeg, png, webp and gif.
var DefaultImagePolicy = &ImagePolicy{
	Extensions: []string{".jpg", ".jpeg", ".png", ".webp", ".gif"},
}

// Matches reports whether name ends in one of the policy extensions, case-insensitively.
func (p *ImagePolicy) Matches(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}

	for _, allowed := range p.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}

	return false
}

var zipMagic = []byte("PK\x03\x04")

// IsArchive reports whether an input should be expanded instead of uploaded.
func IsArchive(name string, content []byte) bool {
	if strings.EqualFold(path.Ext(name), ".zip") {
		return true
	}

	return bytes.HasPrefix(content, zipMagic)
}
