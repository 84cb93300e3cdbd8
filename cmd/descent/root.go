package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/descentlabs/descent/internal/logging"
)

var (
	logLevel string
	logger   *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "descent",
	Short: "Line-search descent optimization toolkit",
	Long: `descent runs gradient-based line-search optimization with pluggable
direction, step and convergence strategies, plus a derivative-free
golden-section search for scalar problems.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewLogger(&logging.Config{
			Level:  logLevel,
			Output: "stderr",
		})
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.SetOut(os.Stdout)
}
