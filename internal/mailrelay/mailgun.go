package mailrelay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/lumenforge/website/internal/config"
	"github.com/lumenforge/website/internal/logger"
)

const mailgunTimeout = 30 * time.Second

// MailgunSender sends messages through the Mailgun API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
	from   string
	log    *slog.Logger
}

// NewMailgunSender returns nil when cfg is not configured.
func NewMailgunSender(cfg config.MailConfig, log *slog.Logger) *MailgunSender {
	if !cfg.IsConfigured() {
		return nil
	}
	if log == nil {
		log = logger.Discard()
	}

	client := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.EURegion {
		client.SetAPIBase(mailgun.APIBaseEU)
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	return &MailgunSender{
		client: client,
		from:   from,
		log:    log.With(logger.Scope("mailrelay.mailgun")),
	}
}

// Send delivers m and returns the Mailgun message id.
func (s *MailgunSender) Send(ctx context.Context, m Message) (string, error) {
	msg := s.client.NewMessage(s.from, m.Subject, m.Text, m.To)
	if m.HTML != "" {
		msg.SetHtml(m.HTML)
	}
	if m.ReplyTo != "" {
		msg.SetReplyTo(m.ReplyTo)
	}

	s.log.Debug("sending email", slog.String("to", m.To), slog.String("subject", m.Subject))

	sendCtx, cancel := context.WithTimeout(ctx, mailgunTimeout)
	defer cancel()

	_, id, err := s.client.Send(sendCtx, msg)
	if err != nil {
		s.log.Error("failed to send email", slog.String("to", m.To), logger.Error(err))
		return "", err
	}

	s.log.Info("email sent", slog.String("to", m.To), slog.String("message_id", id))
	return id, nil
}
