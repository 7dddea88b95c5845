package forms

import (
	"context"

	"github.com/lumenforge/website/internal/clientmeta"
	"github.com/lumenforge/website/internal/mailrelay"
)

// Notifier sends the best-effort notification emails. *mailrelay.Client
// and *mailrelay.Local implement it.
type Notifier interface {
	SendContactEmail(ctx context.Context, e mailrelay.ContactEmail) error
	SendCareersEmail(ctx context.Context, e mailrelay.CareersEmail) error
}

// MetaResolver supplies best-effort client metadata.
// *clientmeta.Resolver implements it.
type MetaResolver interface {
	Resolve(ctx context.Context, userAgent string) clientmeta.Meta
}
