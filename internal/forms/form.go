// Package forms runs the site's form submissions: validation, the required
// storage steps, and best-effort notifications, behind one submit state
// machine.
package forms

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenforge/website/internal/logger"
)

// ConfirmationDuration is how long the success view stays up before the
// form reverts to an empty editor.
const ConfirmationDuration = 5 * time.Second

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission is still running.
var ErrSubmitInFlight = errors.New("submission already in progress")

// State is the submit state of a Form.
type State int

const (
	Editing State = iota
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return "unknown"
}

// Flow is one form's submission logic, run against a snapshot of the draft.
type Flow interface {
	Run(ctx context.Context, d Draft) Result
}

// FlowFunc adapts a function to Flow.
type FlowFunc func(ctx context.Context, d Draft) Result

// Run calls f.
func (f FlowFunc) Run(ctx context.Context, d Draft) Result { return f(ctx, d) }

// Form owns a draft and its submit state.
type Form struct {
	name string
	log  *slog.Logger

	// afterFunc schedules fn and returns a function that cancels it.
	afterFunc func(d time.Duration, fn func()) (stop func() bool)

	mu          sync.Mutex
	state       State
	draft       Draft
	errMsg      string
	fieldErrors ValidationErrors
	generation  int
	stopRevert  func() bool
}

// NewForm creates an empty form. name only labels log lines.
func NewForm(name string, log *slog.Logger) *Form {
	if log == nil {
		log = logger.Discard()
	}
	return &Form{
		name:  name,
		log:   log.With(logger.Scope("forms"), slog.String("form", name)),
		draft: NewDraft(),
		afterFunc: func(d time.Duration, fn func()) func() bool {
			return time.AfterFunc(d, fn).Stop
		},
	}
}

// Set updates a text field. Edits are refused while submitting.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrSubmitInFlight
	}
	f.draft.Values[field] = value
	return nil
}

// SetChecked updates a checkbox. Edits are refused while submitting.
func (f *Form) SetChecked(field string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrSubmitInFlight
	}
	f.draft.Flags[field] = checked
	return nil
}

// State returns the current submit state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current field values.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// Error returns the message from the last failed submission.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// FieldErrors returns the validation failures from the last submission.
func (f *Form) FieldErrors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrors
}

// Submit runs flow against the current draft.
//
// A hard failure returns the form to Editing with its draft untouched and
// the error message set. Success clears the draft and shows the
// confirmation for ConfirmationDuration. The returned error is only ever
// ErrSubmitInFlight; flow failures are reported through the Result.
func (f *Form) Submit(ctx context.Context, flow Flow) (Result, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}
	if f.stopRevert != nil {
		f.stopRevert()
		f.stopRevert = nil
	}
	f.state = Submitting
	f.errMsg = ""
	f.fieldErrors = nil
	f.generation++
	gen := f.generation
	draft := f.draft.Clone()
	f.mu.Unlock()

	res := flow.Run(ctx, draft)

	for _, err := range res.Soft {
		f.log.Warn("best-effort step failed", logger.Error(err))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if res.Err != nil {
		if res.Partial {
			f.log.Error("submission partially applied", logger.Error(res.Err))
		} else {
			f.log.Info("submission failed", logger.Error(res.Err))
		}
		f.state = Editing
		f.errMsg = Message(res.Err)
		errors.As(res.Err, &f.fieldErrors)
		return res, nil
	}

	f.state = Succeeded
	f.draft = NewDraft()
	f.stopRevert = f.afterFunc(ConfirmationDuration, func() { f.revert(gen) })
	return res, nil
}

// Reset returns a succeeded form to Editing immediately.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Succeeded {
		return
	}
	if f.stopRevert != nil {
		f.stopRevert()
		f.stopRevert = nil
	}
	f.state = Editing
}

func (f *Form) revert(gen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation == gen && f.state == Succeeded {
		f.state = Editing
		f.stopRevert = nil
	}
}
