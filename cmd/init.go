package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenforge/website/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lumensite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the site and generates a .lumensite.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("generated config is invalid: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
