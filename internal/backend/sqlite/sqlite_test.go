package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func newTestAuth(t *testing.T, database *db.DB, opts ...AuthOption) *Auth {
	t.Helper()
	opts = append([]AuthOption{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewAuth(database, "test-secret", opts...)
}

func TestSignUpAndSignIn(t *testing.T) {
	auth := newTestAuth(t, setupTestDB(t))
	ctx := context.Background()

	u, err := auth.SignUp(ctx, "jane@example.com", "password1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated user ID")
	}

	sess, err := auth.SignInWithPassword(ctx, "JANE@example.com", "password1")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if sess.User.ID != u.ID {
		t.Errorf("session user = %q, want %q", sess.User.ID, u.ID)
	}
	if sess.AccessToken == "" {
		t.Fatal("expected access token")
	}

	got, err := auth.GetSession(ctx, sess.AccessToken)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.User.Email != "jane@example.com" {
		t.Errorf("session email = %q", got.User.Email)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	auth := newTestAuth(t, setupTestDB(t))
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "dup@example.com", "password1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, err := auth.SignUp(ctx, "dup@example.com", "password2")
	if !errors.Is(err, backend.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if msg := backend.UserMessage(err, ""); msg != "User already registered" {
		t.Errorf("user message = %q", msg)
	}
}

func TestSignUpRejectsWeakInput(t *testing.T) {
	auth := newTestAuth(t, setupTestDB(t))
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "not-an-email", "password1"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := auth.SignUp(ctx, "a@example.com", "123"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	auth := newTestAuth(t, setupTestDB(t))
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "jane@example.com", "password1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, wrongPassword := auth.SignInWithPassword(ctx, "jane@example.com", "nope-nope")
	_, unknownEmail := auth.SignInWithPassword(ctx, "ghost@example.com", "password1")

	if !errors.Is(wrongPassword, backend.ErrInvalidCredentials) || !errors.Is(unknownEmail, backend.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", wrongPassword, unknownEmail)
	}
	if backend.UserMessage(wrongPassword, "") != backend.UserMessage(unknownEmail, "") {
		t.Errorf("messages differ: %q vs %q", backend.UserMessage(wrongPassword, ""), backend.UserMessage(unknownEmail, ""))
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	auth := newTestAuth(t, setupTestDB(t))
	ctx := context.Background()

	auth.SignUp(ctx, "jane@example.com", "password1")
	sess, err := auth.SignInWithPassword(ctx, "jane@example.com", "password1")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	if err := auth.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := auth.GetSession(ctx, sess.AccessToken); !errors.Is(err, backend.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession after sign out, got %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	auth := newTestAuth(t, database, WithClock(clock), WithSessionTTL(time.Hour))
	ctx := context.Background()

	auth.SignUp(ctx, "jane@example.com", "password1")
	sess, err := auth.SignInWithPassword(ctx, "jane@example.com", "password1")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := auth.GetSession(ctx, sess.AccessToken); !errors.Is(err, backend.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for expired token, got %v", err)
	}
	// Expired sessions can still be signed out.
	if err := auth.SignOut(ctx, sess.AccessToken); err != nil {
		t.Errorf("SignOut expired: %v", err)
	}
}

func TestGetSessionRejectsForeignToken(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	issuer := NewAuth(database, "other-secret", WithBcryptCost(bcrypt.MinCost))
	issuer.SignUp(ctx, "jane@example.com", "password1")
	sess, err := issuer.SignInWithPassword(ctx, "jane@example.com", "password1")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	verifier := newTestAuth(t, database)
	if _, err := verifier.GetSession(ctx, sess.AccessToken); !errors.Is(err, backend.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for token signed with another key, got %v", err)
	}
	if _, err := verifier.GetSession(ctx, "garbage"); !errors.Is(err, backend.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for garbage token, got %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	auth := newTestAuth(t, database)
	records := NewRecords(database)
	ctx := context.Background()

	u, err := auth.SignUp(ctx, "jane@example.com", "password1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	p := backend.Profile{ID: u.ID, Email: u.Email, FirstName: "Jane", LastName: "Doe"}
	if err := records.InsertProfile(ctx, p); err != nil {
		t.Fatalf("InsertProfile: %v", err)
	}

	got, err := records.ProfileByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("ProfileByID: %v", err)
	}
	if *got != p {
		t.Errorf("profile = %+v, want %+v", *got, p)
	}

	if err := records.InsertProfile(ctx, p); !errors.Is(err, backend.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists on duplicate profile, got %v", err)
	}
}

func TestProfileByIDNotFound(t *testing.T) {
	records := NewRecords(setupTestDB(t))
	_, err := records.ProfileByID(context.Background(), "missing")
	if !errors.Is(err, backend.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRequiresUser(t *testing.T) {
	records := NewRecords(setupTestDB(t))
	err := records.InsertProfile(context.Background(), backend.Profile{ID: "no-such-user", Email: "x@example.com", FirstName: "X", LastName: "Y"})
	if err == nil {
		t.Error("expected foreign key failure for profile without user")
	}
}

func TestInsertContactSubmission(t *testing.T) {
	records := NewRecords(setupTestDB(t))
	ctx := context.Background()

	id, err := records.InsertContactSubmission(ctx, backend.ContactSubmission{
		Name: "Jane", Email: "jane@x.com", Message: "hi", UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("InsertContactSubmission: %v", err)
	}
	if id == "" {
		t.Error("expected generated ID")
	}

	n, err := records.CountContactSubmissions(ctx)
	if err != nil {
		t.Fatalf("CountContactSubmissions: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestInsertJobApplication(t *testing.T) {
	database := setupTestDB(t)
	records := NewRecords(database)
	ctx := context.Background()

	id, err := records.InsertJobApplication(ctx, backend.JobApplication{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Position: "Backend Engineer", StartDate: "2026-03-01",
		ResumeURL: "https://files.example.test/resumes/ada.pdf",
	})
	if err != nil {
		t.Fatalf("InsertJobApplication: %v", err)
	}

	var startDate, ip *string
	err = database.QueryRow(`SELECT start_date, ip_address FROM job_applications WHERE id = ?`, id).Scan(&startDate, &ip)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if startDate == nil || *startDate != "2026-03-01" {
		t.Errorf("start_date = %v", startDate)
	}
	if ip != nil {
		t.Errorf("ip_address = %q, want NULL", *ip)
	}
}

func TestInsertNewsletterSignupDuplicate(t *testing.T) {
	records := NewRecords(setupTestDB(t))
	ctx := context.Background()

	if _, err := records.InsertNewsletterSignup(ctx, backend.NewsletterSignup{Email: "news@example.com"}); err != nil {
		t.Fatalf("InsertNewsletterSignup: %v", err)
	}
	_, err := records.InsertNewsletterSignup(ctx, backend.NewsletterSignup{Email: "NEWS@example.com"})
	if !errors.Is(err, backend.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if msg := backend.UserMessage(err, ""); msg != "This email is already subscribed" {
		t.Errorf("user message = %q", msg)
	}
}
