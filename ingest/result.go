package ingest

import (
	"fmt"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/data/errors"
)

// Failure is one input or image that could not be ingested.
type Failure struct {
	Name string
	Err  error
}

type Result struct {
	Folder  string
	Total   int
	Created []*data.Asset
	Failed  []Failure
}

// Summary renders the operator message shown after a batch.
func (r *Result) Summary() string {
	return fmt.Sprintf("Uploaded %d images to '%s'", len(r.Created), r.Folder)
}

// Progress returns the uploaded fraction in the range [0, 1].
func (r *Result) Progress() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(len(r.Created)) / float64(r.Total)
}

// Err joins every failure, or returns nil when the batch went through cleanly.
func (r *Result) Err() error {
	errs := errors.Errors{}
	for _, failure := range r.Failed {
		errs.Add(errors.ItemFailed(failure.Err, "upload", failure.Name))
	}

	return errs.Errors()
}
