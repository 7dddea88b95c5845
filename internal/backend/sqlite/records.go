package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/db"
)

var _ backend.Records = (*Records)(nil)

// Records implements backend.Records on the site database.
type Records struct {
	db  *db.DB
	now func() time.Time
}

// NewRecords creates a Records store backed by the given database.
func NewRecords(database *db.DB) *Records {
	return &Records{db: database, now: time.Now}
}

// InsertProfile creates the profile for an existing user.
func (r *Records) InsertProfile(ctx context.Context, p backend.Profile) error {
	now := r.now().UTC().Format(time.DateTime)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FirstName, p.LastName, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &backend.ProviderError{Op: "insert profile", Message: "A profile already exists for this account", Err: backend.ErrAlreadyExists}
		}
		return &backend.ProviderError{Op: "insert profile", Message: "Could not save profile", Err: err}
	}
	return nil
}

// ProfileByID loads a profile.
func (r *Records) ProfileByID(ctx context.Context, id string) (*backend.Profile, error) {
	var p backend.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &backend.ProviderError{Op: "select profile", Message: "Profile not found", Err: backend.ErrNotFound}
	}
	if err != nil {
		return nil, &backend.ProviderError{Op: "select profile", Message: "Could not load profile", Err: err}
	}
	return &p, nil
}

// InsertContactSubmission stores a contact form message.
func (r *Records) InsertContactSubmission(ctx context.Context, s backend.ContactSubmission) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, message, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Email, s.Message, nullable(s.IPAddress), s.UserAgent, r.stamp(s.CreatedAt),
	)
	if err != nil {
		return "", &backend.ProviderError{Op: "insert contact submission", Message: "Could not save your message", Err: err}
	}
	return s.ID, nil
}

// InsertJobApplication stores a careers application.
func (r *Records) InsertJobApplication(ctx context.Context, a backend.JobApplication) (string, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO job_applications (id, first_name, last_name, email, phone, position, start_date,
			resume_url, linkedin_url, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FirstName, a.LastName, a.Email, a.Phone, a.Position, nullable(a.StartDate),
		a.ResumeURL, a.LinkedInURL, nullable(a.IPAddress), a.UserAgent, r.stamp(a.CreatedAt),
	)
	if err != nil {
		return "", &backend.ProviderError{Op: "insert job application", Message: "Could not save your application", Err: err}
	}
	return a.ID, nil
}

// InsertNewsletterSignup subscribes an email address.
func (r *Records) InsertNewsletterSignup(ctx context.Context, n backend.NewsletterSignup) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (id, email, created_at) VALUES (?, ?, ?)`,
		n.ID, n.Email, r.stamp(n.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", &backend.ProviderError{Op: "insert newsletter signup", Message: "This email is already subscribed", Err: backend.ErrAlreadyExists}
		}
		return "", &backend.ProviderError{Op: "insert newsletter signup", Message: "Could not subscribe", Err: err}
	}
	return n.ID, nil
}

// CountContactSubmissions returns the number of stored contact messages.
func (r *Records) CountContactSubmissions(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}

func (r *Records) stamp(t time.Time) string {
	if t.IsZero() {
		t = r.now()
	}
	return t.UTC().Format(time.DateTime)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
