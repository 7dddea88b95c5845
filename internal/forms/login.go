package forms

import (
	"context"

	"github.com/lumenforge/website/internal/pages"
)

// SessionSigner signs a visitor in. *session.Manager implements it.
type SessionSigner interface {
	SignIn(ctx context.Context, email, password string) error
}

// Navigator moves to another page. *navigation.Controller implements it.
type Navigator interface {
	NavigateTo(p pages.Page)
}

// LoginFlow signs in through the session manager and goes home.
type LoginFlow struct {
	Session SessionSigner
	Nav     Navigator // optional
}

// Validate checks the draft without any network calls.
func (f LoginFlow) Validate(d Draft) error {
	var v ValidationErrors
	v.required(d, FieldEmail, "Email")
	if d.Raw(FieldPassword) == "" {
		v.Add(FieldPassword, "Password is required.")
	}
	return v.Err()
}

// Run signs in. The backend's message is shown as is, so it never tells
// which of email or password was wrong.
func (f LoginFlow) Run(ctx context.Context, d Draft) Result {
	if err := f.Validate(d); err != nil {
		return Fail(err)
	}
	if err := f.Session.SignIn(ctx, d.Get(FieldEmail), d.Raw(FieldPassword)); err != nil {
		return Fail(err)
	}
	if f.Nav != nil {
		f.Nav.NavigateTo(pages.Home)
	}
	return Done()
}
