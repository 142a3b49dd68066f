package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/contribution-stats/internal/domain"
	"github.com/naka-gawa/contribution-stats/internal/render"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Computes contribution stats for one or more users and prints them",
	Long: `Computes the contribution statistics of the current calendar year for the given users
and prints them as JSON (default) or as a text summary. With --chart, an HTML page with
the monthly and daily activity is written as well (single user only).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)

		users, _ := cmd.Flags().GetStringSlice("user")
		format, _ := cmd.Flags().GetString("format")
		chartPath, _ := cmd.Flags().GetString("chart")
		if format != "json" && format != "text" {
			return fmt.Errorf("invalid --format %q, expected json or text", format)
		}
		if chartPath != "" && len(users) != 1 {
			return fmt.Errorf("--chart needs exactly one --user")
		}

		aggregator, cfg, err := newAggregator(cmd, logger)
		if err != nil {
			return err
		}

		results := make(map[string]*domain.StatsResult, len(users))
		if len(users) == 1 {
			result, err := aggregator.Aggregate(ctx, users[0])
			if err != nil {
				return fmt.Errorf("failed to aggregate stats: %w", err)
			}
			results[users[0]] = result
		} else {
			bar := progressbar.NewOptions(len(users),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(20),
				progressbar.OptionSetDescription("[cyan]Aggregating users[reset]"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]#[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: "-",
					BarStart:      "[",
					BarEnd:        "]",
				}))
			results, err = aggregator.AggregateMany(ctx, users, cfg.Concurrency, func(string) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			if err != nil {
				return fmt.Errorf("failed to aggregate stats: %w", err)
			}
		}

		if chartPath != "" {
			f, err := os.Create(chartPath)
			if err != nil {
				return fmt.Errorf("failed to create chart file: %w", err)
			}
			defer f.Close()
			if err := render.WriteChart(f, users[0], results[users[0]]); err != nil {
				return err
			}
			logger.Printf("Chart written to %s", chartPath)
		}

		out := cmd.OutOrStdout()
		if format == "text" {
			for _, u := range users {
				if err := render.WriteText(out, u, results[u]); err != nil {
					return err
				}
			}
			return nil
		}

		// A single user prints the bare result, several users a map keyed by username.
		var payload any = results
		if len(users) == 1 {
			payload = results[users[0]]
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringSliceP("user", "u", nil, "Target username (repeatable, required)")
	statsCmd.MarkFlagRequired("user")
	statsCmd.Flags().StringP("format", "f", "json", "Output format: json or text")
	statsCmd.Flags().String("chart", "", "Also write an HTML chart to this file")
	statsCmd.Flags().Int("concurrency", 4, "Maximum users aggregated at once")
}
