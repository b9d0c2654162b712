package main

import (
	"encoding/json"
	"os"

	"ge-course-scraper/internal/logger"

	"github.com/spf13/cobra"
)

var dryRun bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--dry-run]",
	Short: "Runs one scrape cycle and replaces the stored snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newContainer(ctx)
		defer c.Close()

		if dryRun {
			records, _, err := c.Controller.Scraping.DryRun(ctx)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(records)
		}

		result, err := c.Controller.Scraping.RunCycle(ctx)
		if result != nil {
			summary := result.Response()
			logger.Info().
				Str("cycle", summary.CycleID).
				Int("records", summary.Records).
				Strs("failed_categories", summary.FailedCategories).
				Bool("persisted", summary.Persisted).
				Msg("scrape finished")
		}
		return err
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print records as JSON instead of storing them")
}
