package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumenforge/website/internal/forms"
	"github.com/lumenforge/website/internal/logger"
	"github.com/lumenforge/website/internal/navigation"
	"github.com/lumenforge/website/internal/pages"
	"github.com/lumenforge/website/internal/session"
)

// multipartMemory is the allowance for the text fields and multipart framing
// of a careers post on top of the resume itself.
const multipartMemory = 1 << 20

var (
	contactFields    = []string{forms.FieldName, forms.FieldEmail, forms.FieldMessage}
	careersFields    = []string{forms.FieldFirstName, forms.FieldLastName, forms.FieldEmail, forms.FieldPhone, forms.FieldPosition, forms.FieldStartDay, forms.FieldStartMonth, forms.FieldStartYear, forms.FieldLinkedIn}
	signupFields     = []string{forms.FieldFirstName, forms.FieldLastName, forms.FieldEmail, forms.FieldPassword, forms.FieldConfirmPassword}
	loginFields      = []string{forms.FieldEmail, forms.FieldPassword}
	newsletterFields = []string{forms.FieldEmail}
)

func (s *site) handlePage(w http.ResponseWriter, r *http.Request) {
	nav := navigation.New(navigation.NewMemoryLocation("#"+chi.URLParam(r, "page")), nil)
	m := s.session(w, r)

	q := r.URL.Query()
	s.render(w, http.StatusOK, pageData{
		page:       nav.Current(),
		user:       m.Current().User,
		sent:       q.Get("sent") == "1",
		subscribed: q.Get("subscribed") == "1",
	})
}

func (s *site) handleContact(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	f := s.formFromRequest(r, "contact", contactFields)
	flow := forms.ContactFlow{
		Store:     s.Records,
		Meta:      s.Meta.Remote(r.RemoteAddr),
		Notifier:  s.Notifier,
		UserAgent: r.UserAgent(),
	}
	s.finish(w, r, pages.Contact, m, f, flow)
}

func (s *site) handleCareers(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, forms.MaxResumeBytes+multipartMemory)
	values, resume, err := readCareersPost(r)
	f := s.newForm("careers", careersFields, values.Get)
	if err != nil {
		s.log.Info("reading careers form", logger.Error(err))
		status := http.StatusBadRequest
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || errors.Is(err, errResumeTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.render(w, status, pageData{
			page:    pages.Careers,
			user:    m.Current().User,
			form:    f,
			formErr: "Your upload could not be read. Resumes must be smaller than 10 MB.",
		})
		return
	}

	flow := forms.CareersFlow{
		Files:     s.Files,
		Store:     s.Records,
		Meta:      s.Meta.Remote(r.RemoteAddr),
		Notifier:  s.Notifier,
		UserAgent: r.UserAgent(),
		Resume:    resume,
	}
	s.finish(w, r, pages.Careers, m, f, flow)
}

func (s *site) handleSignup(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	f := s.formFromRequest(r, "signup", signupFields)
	_ = f.SetChecked(forms.FieldTerms, r.PostFormValue(forms.FieldTerms) != "")
	s.finish(w, r, pages.Signup, m, f, forms.SignupFlow{Auth: s.Auth, Profiles: s.Records})
}

func (s *site) handleLogin(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	nav := navigation.New(navigation.NewMemoryLocation(pages.Login.Fragment()), nil)
	f := s.formFromRequest(r, "login", loginFields)

	res, ok := s.submit(r.Context(), w, f, forms.LoginFlow{Session: m, Nav: nav})
	if !ok {
		return
	}
	if res.OK() {
		http.Redirect(w, r, nav.Current().Path(), http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusUnprocessableEntity, pageData{page: pages.Login, user: m.Current().User, form: f})
}

func (s *site) handleLogout(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	if err := m.SignOut(r.Context()); err != nil {
		s.log.Warn("signing out", logger.Error(err))
	}
	http.Redirect(w, r, pages.Home.Path(), http.StatusSeeOther)
}

func (s *site) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	m := s.session(w, r)
	back, _ := pages.Parse(r.PostFormValue("page"))
	f := s.formFromRequest(r, "newsletter", newsletterFields)

	res, ok := s.submit(r.Context(), w, f, forms.NewsletterFlow{Store: s.Records})
	if !ok {
		return
	}
	if res.OK() {
		http.Redirect(w, r, back.Path()+"?subscribed=1", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusUnprocessableEntity, pageData{page: back, user: m.Current().User, newsletter: f})
}

// finish submits f and either redirects to the page's confirmation view or
// renders the page again with the draft and its errors.
func (s *site) finish(w http.ResponseWriter, r *http.Request, p pages.Page, m *session.Manager, f *forms.Form, flow forms.Flow) {
	res, ok := s.submit(r.Context(), w, f, flow)
	if !ok {
		return
	}
	if res.OK() {
		http.Redirect(w, r, p.Path()+"?sent=1", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusUnprocessableEntity, pageData{page: p, user: m.Current().User, form: f})
}

func (s *site) submit(ctx context.Context, w http.ResponseWriter, f *forms.Form, flow forms.Flow) (forms.Result, bool) {
	res, err := f.Submit(ctx, flow)
	if err != nil {
		s.log.Warn("submit rejected", logger.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
		return res, false
	}
	return res, true
}

// formFromRequest loads the posted values of fields into a new form.
func (s *site) formFromRequest(r *http.Request, name string, fields []string) *forms.Form {
	return s.newForm(name, fields, r.PostFormValue)
}

func (s *site) newForm(name string, fields []string, value func(string) string) *forms.Form {
	f := forms.NewForm(name, s.Log)
	for _, field := range fields {
		_ = f.Set(field, value(field))
	}
	return f
}
