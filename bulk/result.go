package bulk

import (
	"fmt"
	"strings"

	"github.com/mwantia/assetdesk/data/errors"
)

// Failure is one item a bulk operation could not complete.
type Failure struct {
	ID    string
	Title string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("'%s': %v", f.label(), f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

func (f Failure) label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.ID
}

// Result is the outcome of one bulk invocation. Succeeded and Failed are in
// selection order and together cover every resolved item.
type Result struct {
	Operation string
	Succeeded []string
	Failed    []Failure

	// Artifact names what the operation produced, e.g. the archive file name
	Artifact string
}

func newResult(operation string) *Result {
	return &Result{
		Operation: operation,
		Succeeded: []string{},
	}
}

func (r *Result) succeed(id string) {
	r.Succeeded = append(r.Succeeded, id)
}

func (r *Result) fail(id, title string, err error) {
	r.Failed = append(r.Failed, Failure{ID: id, Title: title, Err: err})
}

func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

func (r *Result) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for _, failure := range r.Failed {
		ids = append(ids, failure.ID)
	}
	return ids
}

// Report renders a one-line summary such as "8 succeeded, 2 failed: Image-A, Image-C".
func (r *Result) Report() string {
	summary := fmt.Sprintf("%d succeeded, %d failed", len(r.Succeeded), len(r.Failed))
	if len(r.Failed) == 0 {
		return summary
	}

	labels := make([]string, 0, len(r.Failed))
	for _, failure := range r.Failed {
		labels = append(labels, failure.label())
	}

	return summary + ": " + strings.Join(labels, ", ")
}

// Err joins every per-item failure, or returns nil when all items succeeded.
func (r *Result) Err() error {
	errs := errors.Errors{}
	for _, failure := range r.Failed {
		errs.Add(errors.ItemFailed(failure.Err, r.Operation, failure.ID))
	}

	return errs.Errors()
}
