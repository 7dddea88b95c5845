package forms

import (
	"errors"
	"strings"

	"github.com/lumenforge/website/internal/backend"
)

const genericFailure = "Something went wrong. Please try again."

// Result is the outcome of a Flow. Err is a hard failure that aborts the
// submission. Soft holds best-effort steps that failed without affecting
// the outcome. Partial marks a hard failure that happened after an earlier
// required step had already been committed.
type Result struct {
	Err     error
	Soft    []error
	Partial bool
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Fail returns a hard failure.
func Fail(err error) Result { return Result{Err: err} }

// Done returns a success, keeping any best-effort failures.
func Done(soft ...error) Result {
	var kept []error
	for _, err := range soft {
		if err != nil {
			kept = append(kept, err)
		}
	}
	return Result{Soft: kept}
}

// PartialError reports that a flow committed some steps before failing.
type PartialError struct {
	Message string
	Err     error
}

func (e *PartialError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *PartialError) Unwrap() error { return e.Err }

// Message turns a flow error into the text shown next to the form.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var pe *PartialError
	if errors.As(err, &pe) {
		return strings.TrimSpace(pe.Message + " " + backend.UserMessage(pe.Err, ""))
	}
	return backend.UserMessage(err, genericFailure)
}
