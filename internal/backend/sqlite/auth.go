// Package sqlite implements the backend capability on the site's SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/db"
)

const (
	defaultSessionTTL = 7 * 24 * time.Hour
	minPasswordLength = 6
	tokenIssuer       = "lumensite"
)

var _ backend.Auth = (*Auth)(nil)

// Auth implements backend.Auth with bcrypt password hashes and HMAC-signed
// JWT access tokens. Each token is backed by an auth_sessions row so it can
// be revoked on sign-out.
type Auth struct {
	db     *db.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	cost   int
}

// AuthOption customises an Auth.
type AuthOption func(*Auth)

// WithSessionTTL sets how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(a *Auth) { a.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(a *Auth) { a.now = now }
}

// WithBcryptCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AuthOption {
	return func(a *Auth) { a.cost = cost }
}

// NewAuth creates an Auth signing tokens with secret.
func NewAuth(database *db.DB, secret string, opts ...AuthOption) *Auth {
	a := &Auth{
		db:     database,
		secret: []byte(secret),
		ttl:    defaultSessionTTL,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUp creates an account.
func (a *Auth) SignUp(ctx context.Context, email, password string) (*backend.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &backend.ProviderError{Op: "sign up", Message: "Unable to validate email address: invalid format"}
	}
	if len(password) < minPasswordLength {
		return nil, &backend.ProviderError{Op: "sign up", Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := backend.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: a.now().UTC(),
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, string(hash), u.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &backend.ProviderError{Op: "sign up", Message: "User already registered", Err: backend.ErrAlreadyExists}
		}
		return nil, &backend.ProviderError{Op: "sign up", Message: "Could not create account", Err: err}
	}
	return &u, nil
}

// SignInWithPassword verifies credentials and opens a session. Unknown
// emails and wrong passwords produce the same error.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	invalid := &backend.ProviderError{Op: "sign in", Message: "Invalid login credentials", Err: backend.ErrInvalidCredentials}

	var (
		u       backend.User
		hash    string
		created string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	).Scan(&u.ID, &u.Email, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, invalid
	}
	if err != nil {
		return nil, &backend.ProviderError{Op: "sign in", Message: "Could not sign in", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, invalid
	}
	u.CreatedAt = parseTime(created)

	now := a.now().UTC()
	expires := now.Add(a.ttl)
	sessionID := uuid.New().String()

	if _, err := a.db.ExecContext(ctx,
		`INSERT INTO auth_sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sessionID, u.ID, now.Format(time.DateTime), expires.Format(time.DateTime),
	); err != nil {
		return nil, &backend.ProviderError{Op: "sign in", Message: "Could not sign in", Err: err}
	}

	token, err := a.sign(u.ID, sessionID, now, expires)
	if err != nil {
		return nil, err
	}

	return &backend.Session{AccessToken: token, User: u, ExpiresAt: expires}, nil
}

// GetSession resolves an access token to its live session.
func (a *Auth) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	claims, err := a.parse(accessToken, true)
	if err != nil {
		return nil, err
	}

	var (
		u       backend.User
		created string
		expires string
		revoked sql.NullString
	)
	err = a.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.created_at, s.expires_at, s.revoked_at
		FROM auth_sessions s JOIN users u ON u.id = s.user_id
		WHERE s.id = ? AND s.user_id = ?`,
		claims.ID, claims.Subject,
	).Scan(&u.ID, &u.Email, &created, &expires, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &backend.ProviderError{Op: "get session", Message: "Session not found", Err: backend.ErrInvalidSession}
	}
	if err != nil {
		return nil, &backend.ProviderError{Op: "get session", Message: "Could not load session", Err: err}
	}
	if revoked.Valid {
		return nil, &backend.ProviderError{Op: "get session", Message: "Session has been signed out", Err: backend.ErrInvalidSession}
	}

	expiresAt := parseTime(expires)
	if !a.now().UTC().Before(expiresAt) {
		return nil, &backend.ProviderError{Op: "get session", Message: "Session expired", Err: backend.ErrInvalidSession}
	}
	u.CreatedAt = parseTime(created)

	return &backend.Session{AccessToken: accessToken, User: u, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the session behind accessToken. Expired tokens can still
// be signed out.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	claims, err := a.parse(accessToken, false)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx,
		`UPDATE auth_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		a.now().UTC().Format(time.DateTime), claims.ID,
	)
	if err != nil {
		return &backend.ProviderError{Op: "sign out", Message: "Could not sign out", Err: err}
	}
	return nil
}

func (a *Auth) sign(userID, sessionID string, issued, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

func (a *Auth) parse(accessToken string, checkExpiry bool) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil && !(errors.Is(err, jwt.ErrTokenExpired) && !checkExpiry) {
		return nil, &backend.ProviderError{Op: "parse token", Message: "Invalid session token", Err: errors.Join(backend.ErrInvalidSession, err)}
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, &backend.ProviderError{Op: "parse token", Message: "Invalid session token", Err: backend.ErrInvalidSession}
	}
	return claims, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
