package mailrelay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lumenforge/website/internal/logger"
)

const maxPayloadBytes = 64 << 10

// RegisterRoutes mounts the relay endpoints and the health probe on r. A nil
// limiter disables rate limiting.
func RegisterRoutes(r chi.Router, svc *Service, limiter *RateLimiter) {
	r.Get("/api/health", handleHealth())
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/api/send-contact-email", handleContact(svc))
		r.Post("/api/send-careers-email", handleCareers(svc))
	})
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "mail-relay"})
	}
}

func handleContact(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactEmail
		if !decode(w, r, &req) {
			return
		}
		if m := req.Missing(); len(m) > 0 {
			writeMissing(w, m)
			return
		}
		send(w, r, svc, func(ctx context.Context) (string, error) {
			return svc.SendContact(ctx, req)
		})
	}
}

func handleCareers(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CareersEmail
		if !decode(w, r, &req) {
			return
		}
		if m := req.Missing(); len(m) > 0 {
			writeMissing(w, m)
			return
		}
		send(w, r, svc, func(ctx context.Context) (string, error) {
			return svc.SendCareers(ctx, req)
		})
	}
}

func send(w http.ResponseWriter, r *http.Request, svc *Service, fn func(context.Context) (string, error)) {
	id, err := fn(r.Context())
	if errors.Is(err, ErrNotConfigured) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Email delivery is not configured"})
		return
	}
	if err != nil {
		svc.log.Error("relay send failed", slog.String("path", r.URL.Path), logger.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Failed to send email",
			"details": providerDetail(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email sent successfully",
		"id":      id,
	})
}

// providerDetail drops the relay's own wrapping so the response carries the
// provider's message.
func providerDetail(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

func writeMissing(w http.ResponseWriter, fields []string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": "Missing required fields: " + strings.Join(fields, ", "),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
