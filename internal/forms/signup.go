package forms

import (
	"context"

	"github.com/lumenforge/website/internal/backend"
)

// Signup form fields.
const (
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTerms           = "terms"
)

// MinPasswordLength is the shortest password the signup form accepts.
const MinPasswordLength = 8

// ProfileStore persists the profile created alongside an account.
type ProfileStore interface {
	InsertProfile(ctx context.Context, p backend.Profile) error
}

// SignupFlow creates an account and its profile.
type SignupFlow struct {
	Auth     backend.Auth
	Profiles ProfileStore
}

// Validate checks the draft without any network calls.
func (f SignupFlow) Validate(d Draft) error {
	var v ValidationErrors
	v.required(d, FieldFirstName, "First name")
	v.required(d, FieldLastName, "Last name")
	v.email(d, FieldEmail)

	pw := d.Raw(FieldPassword)
	switch {
	case pw == "":
		v.Add(FieldPassword, "Password is required.")
	case len(pw) < MinPasswordLength:
		v.Add(FieldPassword, "Password must be at least 8 characters long.")
	}
	if pw != d.Raw(FieldConfirmPassword) {
		v.Add(FieldConfirmPassword, "Passwords do not match.")
	}
	if !d.Checked(FieldTerms) {
		v.Add(FieldTerms, "You must accept the terms and conditions.")
	}
	return v.Err()
}

// Run validates, creates the account, then the profile. A profile failure
// after the account exists is reported as a partial failure.
func (f SignupFlow) Run(ctx context.Context, d Draft) Result {
	if err := f.Validate(d); err != nil {
		return Fail(err)
	}

	user, err := f.Auth.SignUp(ctx, d.Get(FieldEmail), d.Raw(FieldPassword))
	if err != nil {
		return Fail(err)
	}

	err = f.Profiles.InsertProfile(ctx, backend.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: d.Get(FieldFirstName),
		LastName:  d.Get(FieldLastName),
	})
	if err != nil {
		return Result{
			Err: &PartialError{
				Message: "Your account was created, but profile setup failed. Please contact support.",
				Err:     err,
			},
			Partial: true,
		}
	}
	return Done()
}
