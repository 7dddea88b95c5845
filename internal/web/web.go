// Package web renders the site pages and handles their form posts.
//
// Each request builds its own navigation controller and session manager.
// The session manager's state is mirrored into a cookie, and a page
// change made by the controller becomes a redirect to the page path.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/clientmeta"
	"github.com/lumenforge/website/internal/config"
	"github.com/lumenforge/website/internal/content"
	"github.com/lumenforge/website/internal/forms"
	"github.com/lumenforge/website/internal/logger"
	"github.com/lumenforge/website/internal/seo"
	"github.com/lumenforge/website/internal/session"
)

//go:embed static
var staticFS embed.FS

// SessionCookie holds the visitor's access token.
const SessionCookie = "lumen_session"

// Deps are the collaborators of the site handlers.
type Deps struct {
	Site     config.SiteConfig
	Auth     backend.Auth
	Records  backend.Records
	Files    backend.Files        // nil disables resume uploads
	Meta     *clientmeta.Resolver // optional
	Notifier forms.Notifier       // optional
	Content  *content.Library
	Chat     bool // render the chat widget

	// SecureCookies marks the session cookie Secure. Enable behind TLS.
	SecureCookies bool
	// SessionTTL bounds the cookie lifetime. Zero means a browser-session cookie.
	SessionTTL time.Duration

	Log *slog.Logger
}

type site struct {
	Deps
	log *slog.Logger
}

// RegisterRoutes mounts the pages, their form posts and the static assets.
func RegisterRoutes(r chi.Router, d Deps) {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Site.Name == "" {
		d.Site.Name = config.DefaultConfig().Site.Name
	}
	s := &site{Deps: d, log: d.Log.With(logger.Scope("web"))}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handlePage)
	r.Get("/{page}", s.handlePage)
	r.Post("/contact", s.handleContact)
	r.Post("/careers", s.handleCareers)
	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/newsletter", s.handleNewsletter)
}

// session restores the visitor's session from the cookie and keeps the
// cookie in step with every later change of token.
func (s *site) session(w http.ResponseWriter, r *http.Request) *session.Manager {
	var token string
	if c, err := r.Cookie(SessionCookie); err == nil {
		token = c.Value
	}

	m := session.NewManager(s.Auth, s.Records, s.Log)
	m.Subscribe(func(st session.State) {
		if st.Token == token {
			return
		}
		token = st.Token
		http.SetCookie(w, s.cookie(token))
	})

	if err := m.Restore(r.Context(), token); err != nil {
		s.log.Warn("restoring session", logger.Error(err))
	}
	return m
}

func (s *site) cookie(token string) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case token == "":
		c.MaxAge = -1
	case s.SessionTTL > 0:
		c.MaxAge = int(s.SessionTTL / time.Second)
	}
	return c
}

// render writes the full document for d.
func (s *site) render(w http.ResponseWriter, status int, d pageData) {
	head := &seo.Head{}
	seo.Sync(head, d.page, s.Site.BaseURL)

	d.siteName = s.Site.Name
	d.content = s.Content
	d.chat = s.Chat
	d.uploads = s.Files != nil

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := document(head, d).Render(w); err != nil {
		s.log.Error("rendering page", slog.String("page", d.page.String()), logger.Error(err))
	}
}
