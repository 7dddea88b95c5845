package mailrelay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumenforge/website/internal/logger"
)

// Service renders form payloads and hands them to a Sender.
type Service struct {
	sender       Sender
	contactInbox string
	careersInbox string
	log          *slog.Logger
}

// NewService creates a Service. A nil sender makes every send fail with
// ErrNotConfigured.
func NewService(sender Sender, contactInbox, careersInbox string, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		sender:       sender,
		contactInbox: contactInbox,
		careersInbox: careersInbox,
		log:          log.With(logger.Scope("mailrelay")),
	}
}

// Configured reports whether a sender is present.
func (s *Service) Configured() bool { return s.sender != nil }

// SendContact emails a contact submission to the contact inbox.
func (s *Service) SendContact(ctx context.Context, c ContactEmail) (string, error) {
	if s.sender == nil {
		return "", ErrNotConfigured
	}
	m, err := RenderContact(c, s.contactInbox)
	if err != nil {
		return "", err
	}
	id, err := s.sender.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("sending contact email: %w", err)
	}
	return id, nil
}

// SendCareers emails a job application to the careers inbox.
func (s *Service) SendCareers(ctx context.Context, c CareersEmail) (string, error) {
	if s.sender == nil {
		return "", ErrNotConfigured
	}
	m, err := RenderCareers(c, s.careersInbox)
	if err != nil {
		return "", err
	}
	id, err := s.sender.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("sending careers email: %w", err)
	}
	return id, nil
}
