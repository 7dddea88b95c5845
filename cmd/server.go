package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenforge/website/internal/backend/sqlite"
	"github.com/lumenforge/website/internal/chat"
	"github.com/lumenforge/website/internal/config"
	"github.com/lumenforge/website/internal/content"
	"github.com/lumenforge/website/internal/db"
	"github.com/lumenforge/website/internal/forms"
	"github.com/lumenforge/website/internal/llm"
	"github.com/lumenforge/website/internal/mailrelay"
	"github.com/lumenforge/website/internal/server"
	"github.com/lumenforge/website/internal/web"
)

// sessionTTL is both the token lifetime and the session cookie max age.
const sessionTTL = 7 * 24 * time.Hour

var (
	serverPort    int
	secureCookies bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the website with the mail relay and chat assistant",
	Long: `Starts the website, the mail relay endpoints (/api/send-contact-email,
/api/send-careers-email) and the chat endpoints (/api/chat, /ws/chat) on one port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		log := newLogger(cfg)

		database, err := db.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		lib, err := content.Load()
		if err != nil {
			return fmt.Errorf("loading page content: %w", err)
		}

		provider, err := llm.NewProvider(cfg.Chat)
		if err != nil {
			return fmt.Errorf("creating chat provider: %w", err)
		}
		assistant := chat.NewService(provider, cfg.Site.Name, log)
		if !assistant.Available() {
			log.Warn("chat assistant disabled: no API key", slog.String("env", config.APIKeyEnvVar(cfg.Chat.Provider)))
		}

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			TrustProxy:     cfg.Server.TrustProxyHeaders,
		}, log)

		relay := mountRelay(srv, cfg, log)

		chat.RegisterRoutes(srv.Router(), assistant)
		chat.RegisterWebSocket(srv.Streaming(), assistant, cfg.Server.AllowedOrigins)

		// An empty relay.url means the relay mounted above. It is called in
		// process so its per-client rate limit only sees external callers.
		var notifier forms.Notifier = mailrelay.NewLocal(relay)
		relayTarget := "in-process"
		if cfg.Relay.URL != "" {
			notifier = mailrelay.NewClient(cfg.Relay.URL)
			relayTarget = cfg.Relay.URL
		}

		deps := web.Deps{
			Site:          cfg.Site,
			Auth:          sqlite.NewAuth(database, cfg.Storage.JWTSecret, sqlite.WithSessionTTL(sessionTTL)),
			Records:       sqlite.NewRecords(database),
			Meta:          metaResolver(cfg, log),
			Notifier:      notifier,
			Content:       lib,
			Chat:          true,
			SecureCookies: secureCookies,
			SessionTTL:    sessionTTL,
			Log:           log,
		}
		if files := openFiles(context.Background(), cfg.Files, log); files != nil {
			deps.Files = files
		}
		web.RegisterRoutes(srv.Router(), deps)

		log.Info("lumensite starting",
			slog.String("version", Version),
			slog.String("database", database.Path()),
			slog.String("relay", relayTarget),
			slog.Bool("uploads", deps.Files != nil),
		)
		return run(srv, log)
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on")
	serverCmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Mark the session cookie Secure (serve behind TLS)")
	rootCmd.AddCommand(serverCmd)
}
