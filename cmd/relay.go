package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lumenforge/website/internal/server"
)

var relayPort int

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Start only the mail relay",
	Long: `Starts the mail relay on its own: GET /api/health, POST /api/send-contact-email
and POST /api/send-careers-email. Point relay.url of a site instance at it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = relayPort
		}
		log := newLogger(cfg)

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			TrustProxy:     cfg.Server.TrustProxyHeaders,
		}, log)
		svc := mountRelay(srv, cfg, log)

		log.Info("mail relay starting", "version", Version, "configured", svc.Configured())
		return run(srv, log)
	},
}

func init() {
	relayCmd.Flags().IntVar(&relayPort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(relayCmd)
}
