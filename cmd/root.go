package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lumensite",
	Short: "LumenForge company website, mail relay and chat assistant",
	Long: `lumensite serves the LumenForge marketing website: the public pages,
the contact, careers, signup and newsletter forms, the mail relay that
forwards form submissions to the operations inboxes, and the AI chat
assistant.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".lumensite.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
