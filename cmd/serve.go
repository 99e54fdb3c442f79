package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/breederops/breeder-control/internal/app"
	"github.com/breederops/breeder-control/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the facade HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a, err := app.Build(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("build application: %w", err)
		}
		return a.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
