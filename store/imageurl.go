package store

import (
	"fmt"
	"strings"

	"github.com/mwantia/assetdesk/data"
)

const (
	DefaultCDNURL       = "https://cdn.sanity.io"
	DefaultDisplayWidth = 800
)

// URLBuilder turns image references into display URLs. Building never touches the network.
type URLBuilder struct {
	BaseURL string
	Project string
	Dataset string
}

func NewURLBuilder(baseURL, project, dataset string) *URLBuilder {
	if baseURL == "" {
		baseURL = DefaultCDNURL
	}
	if dataset == "" {
		dataset = "production"
	}

	return &URLBuilder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Project: project,
		Dataset: dataset,
	}
}

// Build returns `<base>/images/<project>/<dataset>/<hash>-<W>x<H>.<ext>?w=<width>`.
// A width of zero or less omits the resize parameter.
func (b *URLBuilder) Build(ref data.ImageRef, width int) (string, error) {
	parts, err := ref.Parse()
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/images/%s/%s/%s-%dx%d.%s",
		b.BaseURL, b.Project, b.Dataset,
		parts.Hash, parts.Width, parts.Height, parts.Format)
	if width > 0 {
		u = fmt.Sprintf("%s?w=%d", u, width)
	}

	return u, nil
}
