package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/backend/minio"
	"github.com/lumenforge/website/internal/clientmeta"
	"github.com/lumenforge/website/internal/config"
	"github.com/lumenforge/website/internal/logger"
	"github.com/lumenforge/website/internal/mailrelay"
	"github.com/lumenforge/website/internal/server"
)

const shutdownTimeout = 15 * time.Second

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `lumensite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.Log.Format, os.Stderr)
}

// mountRelay registers the mail relay endpoints on srv.
func mountRelay(srv *server.Server, cfg *config.Config, log *slog.Logger) *mailrelay.Service {
	var sender mailrelay.Sender
	if mg := mailrelay.NewMailgunSender(cfg.Mail, log); mg != nil {
		sender = mg
	} else {
		log.Warn("mail delivery disabled: mail.domain or mail.api_key not set")
	}

	svc := mailrelay.NewService(sender, cfg.Mail.ContactInbox, cfg.Mail.CareersInbox, log)
	limiter := mailrelay.NewRateLimiter(cfg.Relay.RatePerMinute, cfg.Relay.Burst)
	mailrelay.RegisterRoutes(srv.Router(), svc, limiter)
	return svc
}

// openFiles connects the resume bucket. Uploads are disabled, not fatal,
// when the object store is missing or unreachable.
func openFiles(ctx context.Context, cfg config.FilesConfig, log *slog.Logger) backend.Files {
	if !cfg.IsConfigured() {
		log.Warn("resume uploads disabled: files.endpoint not set")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	files, err := minio.New(ctx, cfg)
	if err != nil {
		log.Error("resume uploads disabled", logger.Error(err))
		return nil
	}
	return files
}

// metaResolver builds the client metadata resolver. An empty lookup URL
// disables the IP lookup.
func metaResolver(cfg *config.Config, log *slog.Logger) *clientmeta.Resolver {
	var ip clientmeta.Lookuper
	if cfg.IPLookup.URL != "" {
		ip = clientmeta.NewIPLookup(cfg.IPLookup.URL)
	}
	return clientmeta.NewResolver(ip, log)
}

// run starts srv and shuts it down gracefully on SIGINT or SIGTERM.
func run(srv *server.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", logger.Error(err))
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
