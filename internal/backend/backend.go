// Package backend describes the authentication, record and file storage
// capability the site depends on. Implementations live in subpackages.
package backend

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a record or session does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique record is inserted twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials is returned for a failed password sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession is returned for an expired, revoked or malformed token.
	ErrInvalidSession = errors.New("invalid session")
)

// ProviderError is a failure reported by the storage backend. Message is
// safe to show to end users.
type ProviderError struct {
	Op      string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage extracts the user-facing message from err. Errors that are not
// ProviderErrors yield fallback.
func UserMessage(err error, fallback string) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return fallback
}

// User is an authenticated identity.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Session is an authenticated session for one user.
type Session struct {
	AccessToken string
	User        User
	ExpiresAt   time.Time
}

// Auth manages accounts and sessions.
type Auth interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Profile is the display record linked one-to-one with a User.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// ContactSubmission is a message sent through the contact form.
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Message   string
	IPAddress string // empty when unknown
	UserAgent string
	CreatedAt time.Time
}

// JobApplication is a careers form submission.
type JobApplication struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Position    string
	StartDate   string // YYYY-MM-DD or empty
	ResumeURL   string
	LinkedInURL string
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
}

// NewsletterSignup is a newsletter subscription.
type NewsletterSignup struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// ProfileReader loads profiles by user id.
type ProfileReader interface {
	ProfileByID(ctx context.Context, id string) (*Profile, error)
}

// Records stores form submissions and profiles. Insert methods assign an ID
// when the record has none and return it.
type Records interface {
	ProfileReader
	InsertProfile(ctx context.Context, p Profile) error
	InsertContactSubmission(ctx context.Context, s ContactSubmission) (string, error)
	InsertJobApplication(ctx context.Context, a JobApplication) (string, error)
	InsertNewsletterSignup(ctx context.Context, n NewsletterSignup) (string, error)
}

// Upload describes a file to store.
type Upload struct {
	Name        string
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.Reader
}

// Files stores uploaded documents in a named bucket.
type Files interface {
	Upload(ctx context.Context, u Upload) (key string, err error)
	PublicURL(key string) string
}
