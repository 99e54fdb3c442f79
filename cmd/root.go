// Package cmd defines the breeder-control command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "breeder-control",
	Short: "HTTP control-plane facade for the breeder job backend",
	Long: `breeder-control exposes a synchronous HTTP API for managing breeders
and credentials. Each request is translated into an authenticated job
invocation against the orchestration backend; no resource state is held
locally.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
