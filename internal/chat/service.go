// Package chat is the site's AI assistant. Replies always succeed: when the
// provider is missing or fails, visitors get a fixed fallback message.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lumenforge/website/internal/llm"
	"github.com/lumenforge/website/internal/logger"
)

const (
	// FallbackUnavailable is the reply when no provider is configured.
	FallbackUnavailable = "Our AI assistant isn't available right now. Please use the contact form and our team will get back to you."
	// FallbackError is the reply when the provider fails or returns nothing.
	FallbackError = "Sorry, I'm having trouble answering right now. Please try again in a moment or reach us through the contact form."

	// MaxHistory is the number of prior turns sent with each message.
	MaxHistory = 20
	// MaxMessageLength bounds a single visitor message, in bytes.
	MaxMessageLength = 2000
)

const systemPrompt = `You are the website assistant for %s, a technology services company offering
cloud architecture and migration, custom software development, data engineering and analytics,
AI and machine learning solutions, and managed DevOps.
Answer questions about the company's services, vision, careers and how to get in touch.
Keep answers short and friendly. If a question needs a human, point the visitor to the contact page.
Never invent prices, client names or commitments.`

// Turn is one message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service produces assistant replies.
type Service struct {
	provider llm.Provider
	prompt   string
	log      *slog.Logger
}

// NewService creates a Service. A nil provider makes every reply
// FallbackUnavailable.
func NewService(provider llm.Provider, siteName string, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		provider: provider,
		prompt:   fmt.Sprintf(systemPrompt, siteName),
		log:      log.With(logger.Scope("chat")),
	}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool { return s.provider != nil }

// Reply answers message given the prior turns. It never fails.
func (s *Service) Reply(ctx context.Context, message string, history []Turn) string {
	if s.provider == nil {
		return FallbackUnavailable
	}

	msgs := []llm.Message{{Role: llm.RoleSystem, Content: s.prompt}}
	for _, t := range recent(history) {
		msgs = append(msgs, llm.Message{Role: llm.Role(t.Role), Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    msgs,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Error("chat completion failed", slog.String("provider", s.provider.Name()), logger.Error(err))
		return FallbackError
	}
	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		s.log.Warn("chat completion returned empty reply", slog.String("provider", s.provider.Name()))
		return FallbackError
	}
	return reply
}

// recent keeps the last MaxHistory user and assistant turns. Other roles
// are dropped so a client cannot inject system instructions.
func recent(history []Turn) []Turn {
	kept := make([]Turn, 0, len(history))
	for _, t := range history {
		role := llm.Role(t.Role)
		if (role == llm.RoleUser || role == llm.RoleAssistant) && strings.TrimSpace(t.Content) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > MaxHistory {
		kept = kept[len(kept)-MaxHistory:]
	}
	return kept
}
