package forms

import (
	"context"

	"github.com/lumenforge/website/internal/backend"
)

// NewsletterStore persists newsletter subscriptions.
type NewsletterStore interface {
	InsertNewsletterSignup(ctx context.Context, n backend.NewsletterSignup) (string, error)
}

// NewsletterFlow subscribes an email address.
type NewsletterFlow struct {
	Store NewsletterStore
}

// Validate checks the draft without any network calls.
func (f NewsletterFlow) Validate(d Draft) error {
	var v ValidationErrors
	v.email(d, FieldEmail)
	return v.Err()
}

// Run validates and stores the subscription.
func (f NewsletterFlow) Run(ctx context.Context, d Draft) Result {
	if err := f.Validate(d); err != nil {
		return Fail(err)
	}
	if _, err := f.Store.InsertNewsletterSignup(ctx, backend.NewsletterSignup{Email: d.Get(FieldEmail)}); err != nil {
		return Fail(err)
	}
	return Done()
}
