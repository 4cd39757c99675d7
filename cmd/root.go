// Package cmd is the portfolio command line
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibin-org/portfolio/internal/logging"
)

var bootstrapLogger = logging.Bootstrap()

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Portfolio site server",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the command named on the command line
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
