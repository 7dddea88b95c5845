package forms

import (
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the basic something@domain.tld check.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects field failures found before any network call.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, " ")
}

// Add records a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Field returns the first message for field, or "".
func (v ValidationErrors) Field(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns v as an error, or nil when empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) required(d Draft, field, label string) {
	if d.Get(field) == "" {
		v.Add(field, label+" is required.")
	}
}

func (v *ValidationErrors) email(d Draft, field string) {
	switch e := d.Get(field); {
	case e == "":
		v.Add(field, "Email is required.")
	case !ValidEmail(e):
		v.Add(field, "Please enter a valid email address.")
	}
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
