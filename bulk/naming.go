package bulk

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mwantia/assetdesk/data"
)

// ArchiveName is the file name offered for an exported archive.
const ArchiveName = "downloaded_images.zip"

// entryNamer hands out file names that are unique within one batch, comparing case
// insensitively so extraction on any file system keeps every entry.
type entryNamer struct {
	used map[string]struct{}
}

func newEntryNamer() *entryNamer {
	return &entryNamer{used: make(map[string]struct{})}
}

// Name returns `<title><ext>`, falling back to `<title>-<id8><ext>`, `<title>-<id><ext>`
// and finally a numeric suffix when the previous candidates are taken.
func (n *entryNamer) Name(asset *data.Asset) string {
	base := sanitizeTitle(asset.Title)
	ext := asset.ImageRef.Extension()

	candidates := []string{base + ext}
	if len(asset.ID) > 8 {
		candidates = append(candidates, fmt.Sprintf("%s-%s%s", base, asset.ID[:8], ext))
	}
	if asset.ID != "" {
		candidates = append(candidates, fmt.Sprintf("%s-%s%s", base, sanitizeTitle(asset.ID), ext))
	}

	for _, candidate := range candidates {
		if n.claim(candidate) {
			return candidate
		}
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if n.claim(candidate) {
			return candidate
		}
	}
}

func (n *entryNamer) claim(name string) bool {
	key := strings.ToLower(name)
	if _, taken := n.used[key]; taken {
		return false
	}

	n.used[key] = struct{}{}
	return true
}

// sanitizeTitle keeps titles usable as a single path element.
func sanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, title)

	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	if cleaned == "" {
		return "untitled"
	}

	return cleaned
}
