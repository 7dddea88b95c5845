package mailrelay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type fakeSender struct {
	calls []Message
	id    string
	err   error
}

func (f *fakeSender) Send(_ context.Context, m Message) (string, error) {
	f.calls = append(f.calls, m)
	return f.id, f.err
}

func newTestRouter(sender Sender, limiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, NewService(sender, "ops@example.com", "careers@example.com", nil), limiter)
	return r
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestContactMissingMessageIsRejected(t *testing.T) {
	sender := &fakeSender{id: "msg-1"}
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-contact-email", `{"name":"Jane","email":"jane@x.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Missing required fields: message" {
		t.Errorf("error = %v", got)
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.calls))
	}
}

func TestContactInvalidJSON(t *testing.T) {
	sender := &fakeSender{}
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-contact-email", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(sender.calls) != 0 {
		t.Error("sender should not be called")
	}
}

func TestContactEscapesUserInput(t *testing.T) {
	sender := &fakeSender{id: "msg-1"}
	body := `{"name":"<script>alert(1)</script>","email":"jane@x.com","message":"Tom & \"Jerry\" 'quoted'"}`
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-contact-email", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(sender.calls) != 1 {
		t.Fatalf("sender called %d times", len(sender.calls))
	}
	m := sender.calls[0]
	if !strings.Contains(m.HTML, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag in HTML body:\n%s", m.HTML)
	}
	if strings.Contains(m.HTML, "<script>") {
		t.Error("raw <script> leaked into HTML body")
	}
	for _, want := range []string{"Tom &amp;", "&#34;Jerry&#34;", "&#39;quoted&#39;"} {
		if !strings.Contains(m.HTML, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
	if m.ReplyTo != "jane@x.com" || m.To != "ops@example.com" {
		t.Errorf("addressing = (to %q, reply-to %q)", m.To, m.ReplyTo)
	}

	resp := decodeBody(t, w)
	if resp["success"] != true || resp["id"] != "msg-1" {
		t.Errorf("response = %v", resp)
	}
}

func TestContactProviderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("domain not verified")}
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-contact-email", `{"name":"Jane","email":"jane@x.com","message":"hi"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["error"] != "Failed to send email" || resp["details"] != "domain not verified" {
		t.Errorf("response = %v", resp)
	}
}

func TestNotConfigured(t *testing.T) {
	w := postJSON(t, newTestRouter(nil, nil), "/api/send-contact-email", `{"name":"Jane","email":"jane@x.com","message":"hi"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestCareersRequiredFields(t *testing.T) {
	sender := &fakeSender{}
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-careers-email", `{"firstName":"Ada","email":"ada@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Missing required fields: lastName, position" {
		t.Errorf("error = %v", got)
	}
	if len(sender.calls) != 0 {
		t.Error("sender should not be called")
	}
}

func TestCareersOptionalFieldsAndLinks(t *testing.T) {
	sender := &fakeSender{id: "msg-2"}
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","position":"Engineer",
		"resumeUrl":"https://files.example.test/cv.pdf","linkedinUrl":"javascript:alert(1)"}`
	w := postJSON(t, newTestRouter(sender, nil), "/api/send-careers-email", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	m := sender.calls[0]
	if m.To != "careers@example.com" {
		t.Errorf("to = %q", m.To)
	}
	if strings.Count(m.HTML, notProvided) != 2 {
		t.Errorf("expected phone and start date to be %q:\n%s", notProvided, m.HTML)
	}
	if !strings.Contains(m.HTML, `href="https://files.example.test/cv.pdf"`) {
		t.Error("expected resume link")
	}
	if strings.Contains(m.HTML, `href="javascript:`) {
		t.Error("javascript URL rendered as a link")
	}
	if !strings.Contains(m.Text, "Phone: Not provided") {
		t.Errorf("text body = %q", m.Text)
	}
	if m.Subject != "New job application: Engineer - Ada Lovelace" {
		t.Errorf("subject = %q", m.Subject)
	}
}

func TestRenderContactSubjectIsSingleLine(t *testing.T) {
	m, err := RenderContact(ContactEmail{Name: "Jane\r\nBcc: evil@example.com", Email: "j@x.com", Message: "hi"}, "ops@example.com")
	if err != nil {
		t.Fatalf("RenderContact: %v", err)
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		t.Errorf("subject contains line breaks: %q", m.Subject)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	newTestRouter(nil, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["status"] != "ok" || resp["service"] != "mail-relay" {
		t.Errorf("response = %v", resp)
	}
}

func TestRateLimit(t *testing.T) {
	sender := &fakeSender{id: "x"}
	h := newTestRouter(sender, NewRateLimiter(1, 2))
	body := `{"name":"Jane","email":"jane@x.com","message":"hi"}`

	for i := 0; i < 2; i++ {
		if w := postJSON(t, h, "/api/send-contact-email", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := postJSON(t, h, "/api/send-contact-email", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	// Other clients have their own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/send-contact-email", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.9:4000"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d", w.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	var l *RateLimiter = NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatal("nil limiter should allow everything")
		}
	}
}

func TestRateLimiterPrunesRefilledBuckets(t *testing.T) {
	l := NewRateLimiter(60, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < maxTrackedClients; i++ {
		l.Allow(string(rune('a'+i%26)) + strings.Repeat("x", i/26))
	}
	now = now.Add(time.Minute)
	l.Allow("newcomer")

	if n := len(l.limiters); n != 1 {
		t.Errorf("tracked clients = %d, want 1 after prune", n)
	}
}

func TestClientSuccess(t *testing.T) {
	var got ContactEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/send-contact-email" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	err := NewClient(srv.URL+"/").SendContactEmail(context.Background(), ContactEmail{Name: "Jane", Email: "jane@x.com", Message: "hi"})
	if err != nil {
		t.Fatalf("SendContactEmail: %v", err)
	}
	if got.Name != "Jane" {
		t.Errorf("relay received %+v", got)
	}
}

func TestClientErrorCarriesDetails(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeSender{err: errors.New("quota exceeded")}, nil))
	defer srv.Close()

	err := NewClient(srv.URL).SendCareersEmail(context.Background(), CareersEmail{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Position: "Engineer",
	})
	var re *RelayError
	if !errors.As(err, &re) {
		t.Fatalf("expected RelayError, got %v", err)
	}
	if re.Status != http.StatusBadGateway || re.Message != "quota exceeded" {
		t.Errorf("relay error = %+v", re)
	}
}

func TestClientErrorWithoutDetails(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeSender{}, nil))
	defer srv.Close()

	err := NewClient(srv.URL).SendContactEmail(context.Background(), ContactEmail{Name: "Jane"})
	var re *RelayError
	if !errors.As(err, &re) || re.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 RelayError, got %v", err)
	}
	if !strings.HasPrefix(re.Message, "Missing required fields") {
		t.Errorf("message = %q", re.Message)
	}
}

func TestMissingTreatsWhitespaceAsBlank(t *testing.T) {
	got := ContactEmail{Name: "  ", Email: "a@b.c", Message: "\n"}.Missing()
	if len(got) != 2 || got[0] != "name" || got[1] != "message" {
		t.Errorf("Missing() = %v", got)
	}
}

func TestLocalBypassesRelayRateLimit(t *testing.T) {
	sender := &fakeSender{id: "x"}
	svc := NewService(sender, "ops@example.com", "careers@example.com", nil)
	limiter := NewRateLimiter(10, 5)
	r := chi.NewRouter()
	RegisterRoutes(r, svc, limiter)

	local := NewLocal(svc)
	const visitors = 7
	for i := 0; i < visitors; i++ {
		err := local.SendContactEmail(context.Background(), ContactEmail{
			Name:    "Visitor " + string(rune('A'+i)),
			Email:   "visitor@example.com",
			Message: "hello",
		})
		if err != nil {
			t.Fatalf("visitor %d: %v", i+1, err)
		}
	}
	if len(sender.calls) != visitors {
		t.Errorf("sender received %d of %d", len(sender.calls), visitors)
	}

	// External callers of the same service are still limited.
	body := `{"name":"Jane","email":"jane@x.com","message":"hi"}`
	for i := 0; i < 5; i++ {
		postJSON(t, r, "/api/send-contact-email", body)
	}
	if w := postJSON(t, r, "/api/send-contact-email", body); w.Code != http.StatusTooManyRequests {
		t.Errorf("external status = %d, want 429", w.Code)
	}
}

func TestLocalCareersDelivers(t *testing.T) {
	sender := &fakeSender{id: "x"}
	local := NewLocal(NewService(sender, "ops@example.com", "careers@example.com", nil))

	err := local.SendCareersEmail(context.Background(), CareersEmail{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Position: "Engineer",
	})
	if err != nil {
		t.Fatalf("SendCareersEmail: %v", err)
	}
	if len(sender.calls) != 1 || sender.calls[0].To != "careers@example.com" {
		t.Errorf("calls = %+v", sender.calls)
	}
}

func TestLocalRejectsMissingFields(t *testing.T) {
	sender := &fakeSender{}
	local := NewLocal(NewService(sender, "ops@example.com", "careers@example.com", nil))

	err := local.SendContactEmail(context.Background(), ContactEmail{Name: "Jane"})
	if err == nil || !strings.Contains(err.Error(), "email, message") {
		t.Errorf("err = %v", err)
	}
	if len(sender.calls) != 0 {
		t.Error("sender called for an incomplete payload")
	}
}

func TestLocalNotConfigured(t *testing.T) {
	local := NewLocal(NewService(nil, "ops@example.com", "careers@example.com", nil))
	err := local.SendContactEmail(context.Background(), ContactEmail{Name: "Jane", Email: "jane@x.com", Message: "hi"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
