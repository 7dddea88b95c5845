package mailrelay

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no mail provider credentials are set.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Sender delivers a rendered message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, m Message) (string, error)
}
