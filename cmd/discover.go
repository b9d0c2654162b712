package main

import (
	"ge-course-scraper/internal/logger"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Collects degree requirements from the catalog into the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newContainer(ctx)
		defer c.Close()

		n, err := c.SyncDegrees(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int("degrees", n).Msg("degrees saved")
		return nil
	},
}
