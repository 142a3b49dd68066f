// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/config"
	"github.com/naka-gawa/contribution-stats/internal/gateway"
	"github.com/naka-gawa/contribution-stats/internal/usecase"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contribution-stats",
	Short: "A tool to summarize a user's yearly contributions on GitLab or GitHub.",
	Long: `contribution-stats computes commit streaks, an activity calendar, the most active
weekday and month, top languages and stars earned for a single user of GitLab or GitHub.
It can print the summary once (stats) or serve it over HTTP (serve).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("provider", config.ProviderGitLab, "Remote platform: gitlab or github")
	rootCmd.PersistentFlags().String("gitlab-url", "https://gitlab.com", "Base URL of the GitLab instance")
	rootCmd.PersistentFlags().String("github-url", "", "Base URL of a GitHub Enterprise instance (empty for github.com)")
	rootCmd.PersistentFlags().Duration("request-timeout", 15*time.Second, "Timeout of each remote call")
}

// newLogger discards everything unless verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newAggregator loads and validates the configuration, then builds the remote client once.
func newAggregator(cmd *cobra.Command, logger *log.Logger) (*usecase.Aggregator, *config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	fetcher, err := gateway.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewAggregator(fetcher, logger), cfg, nil
}
