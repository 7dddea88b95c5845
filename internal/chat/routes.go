package chat

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lumenforge/website/internal/logger"
)

type chatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// wsMessage is the frame format of /ws/chat in both directions.
type wsMessage struct {
	Type    string `json:"type"` // "message" from the client; "response" or "error" from the server
	Content string `json:"content"`
}

// RegisterRoutes mounts POST /api/chat.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/chat", handleChat(svc))
}

// RegisterWebSocket mounts GET /ws/chat. Mount it on a router without a
// request timeout. allowedOrigins limits upgrades; when empty only
// same-host origins are accepted.
func RegisterWebSocket(r chi.Router, svc *Service, allowedOrigins []string) {
	upgrader := websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	r.Get("/ws/chat", handleWebSocket(svc, upgrader))
}

func handleChat(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 256<<10)
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		msg := strings.TrimSpace(req.Message)
		if msg == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}
		if len(msg) > MaxMessageLength {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is too long"})
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Reply: svc.Reply(r.Context(), msg, req.History)})
	}
}

func handleWebSocket(svc *Service, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			svc.log.Warn("websocket upgrade", logger.Error(err))
			return
		}
		defer conn.Close()
		conn.SetReadLimit(MaxMessageLength * 2)

		var history []Turn
		for {
			var in wsMessage
			if err := conn.ReadJSON(&in); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					svc.log.Warn("websocket read", logger.Error(err))
				}
				return
			}

			content := strings.TrimSpace(in.Content)
			switch {
			case in.Type != "message":
				send(svc, conn, wsMessage{Type: "error", Content: "unknown message type: " + in.Type})
				continue
			case content == "":
				send(svc, conn, wsMessage{Type: "error", Content: "content is required"})
				continue
			case len(content) > MaxMessageLength:
				send(svc, conn, wsMessage{Type: "error", Content: "message is too long"})
				continue
			}

			reply := svc.Reply(r.Context(), content, history)
			history = recent(append(history,
				Turn{Role: "user", Content: content},
				Turn{Role: "assistant", Content: reply},
			))
			send(svc, conn, wsMessage{Type: "response", Content: reply})
		}
	}
}

func send(svc *Service, conn *websocket.Conn, m wsMessage) {
	if err := conn.WriteJSON(m); err != nil {
		svc.log.Warn("websocket write", logger.Error(err))
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if originMatches(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// originMatches compares origin with an allowed pattern the way go-chi/cors
// does: case-insensitive, with at most one "*" matching any run of
// characters, so "http://localhost:*" admits every local port.
func originMatches(pattern, origin string) bool {
	pattern = strings.ToLower(pattern)
	origin = strings.ToLower(origin)
	if pattern == "*" {
		return true
	}
	prefix, suffix, ok := strings.Cut(pattern, "*")
	if !ok {
		return pattern == origin
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) &&
		strings.HasSuffix(origin, suffix)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
