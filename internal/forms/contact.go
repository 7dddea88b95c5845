package forms

import (
	"context"
	"fmt"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/clientmeta"
	"github.com/lumenforge/website/internal/mailrelay"
)

// Contact form fields.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// ContactStore persists contact messages.
type ContactStore interface {
	InsertContactSubmission(ctx context.Context, s backend.ContactSubmission) (string, error)
}

// ContactFlow stores a contact message and notifies the operations inbox.
type ContactFlow struct {
	Store     ContactStore
	Meta      MetaResolver
	Notifier  Notifier // optional
	UserAgent string
}

// Validate checks the draft without any network calls.
func (f ContactFlow) Validate(d Draft) error {
	var v ValidationErrors
	v.required(d, FieldName, "Name")
	v.email(d, FieldEmail)
	v.required(d, FieldMessage, "Message")
	return v.Err()
}

// Run validates, stores the submission, then notifies. A storage failure
// aborts before the notification. A notification failure is soft.
func (f ContactFlow) Run(ctx context.Context, d Draft) Result {
	if err := f.Validate(d); err != nil {
		return Fail(err)
	}

	meta := clientmeta.Meta{UserAgent: f.UserAgent}
	if f.Meta != nil {
		meta = f.Meta.Resolve(ctx, f.UserAgent)
	}

	sub := backend.ContactSubmission{
		Name:      d.Get(FieldName),
		Email:     d.Get(FieldEmail),
		Message:   d.Get(FieldMessage),
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}
	if _, err := f.Store.InsertContactSubmission(ctx, sub); err != nil {
		return Fail(err)
	}

	if f.Notifier == nil {
		return Done()
	}
	err := f.Notifier.SendContactEmail(ctx, mailrelay.ContactEmail{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	})
	if err != nil {
		return Done(fmt.Errorf("contact notification: %w", err))
	}
	return Done()
}
