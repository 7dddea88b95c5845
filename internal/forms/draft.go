package forms

import "strings"

// Draft holds the in-progress field values of one form. Text fields and
// checkboxes are kept apart.
type Draft struct {
	Values map[string]string
	Flags  map[string]bool
}

// NewDraft returns an empty draft.
func NewDraft() Draft {
	return Draft{Values: map[string]string{}, Flags: map[string]bool{}}
}

// Get returns the trimmed value of a text field.
func (d Draft) Get(field string) string {
	return strings.TrimSpace(d.Values[field])
}

// Raw returns a text field exactly as typed. Passwords use this.
func (d Draft) Raw(field string) string {
	return d.Values[field]
}

// Checked returns a checkbox value.
func (d Draft) Checked(field string) bool {
	return d.Flags[field]
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	c := NewDraft()
	for k, v := range d.Values {
		c.Values[k] = v
	}
	for k, v := range d.Flags {
		c.Flags[k] = v
	}
	return c
}

// Empty reports whether nothing has been entered.
func (d Draft) Empty() bool {
	for _, v := range d.Values {
		if v != "" {
			return false
		}
	}
	for _, v := range d.Flags {
		if v {
			return false
		}
	}
	return true
}
