package data

import "slices"

// DefaultFolders is the fixed list of folders uploads may be filed under.
var DefaultFolders = []string{
	"Luxury Bus (Victor)",
	"Luxury Bus (Kasper)",
	"Luxury Bus (Tourista)",
	"Luxury Bus (Hymer)",
	"Luxury Bus (Spider-Seater)",
	"Luxury Bus (Arrow)",
	"Sleeper Bus(Spider)",
	"Deluxe Buses",
	"Institutional Buses",
	"Special Purpose Buses",
}

// Folders is an enumerated set of folder names.
type Folders []string

func (f Folders) Contains(name string) bool {
	return slices.Contains(f, name)
}

// Default returns the first folder, or an empty string for an empty set.
func (f Folders) Default() string {
	if len(f) == 0 {
		return ""
	}

	return f[0]
}
