package mailrelay

import (
	"context"
	"fmt"
	"strings"
)

// Local delivers notifications through a Service in the same process. It
// has the same method set as Client and applies the same required-field
// check, but skips the HTTP hop and the relay's per-client rate limit.
type Local struct {
	svc *Service
}

// NewLocal wraps svc.
func NewLocal(svc *Service) *Local {
	return &Local{svc: svc}
}

// SendContactEmail sends a contact notification.
func (l *Local) SendContactEmail(ctx context.Context, e ContactEmail) error {
	if m := e.Missing(); len(m) > 0 {
		return missingError(m)
	}
	_, err := l.svc.SendContact(ctx, e)
	return err
}

// SendCareersEmail sends a careers notification.
func (l *Local) SendCareersEmail(ctx context.Context, e CareersEmail) error {
	if m := e.Missing(); len(m) > 0 {
		return missingError(m)
	}
	_, err := l.svc.SendCareers(ctx, e)
	return err
}

func missingError(fields []string) error {
	return fmt.Errorf("missing required fields: %s", strings.Join(fields, ", "))
}
