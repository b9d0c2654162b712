package main

import (
	"sync"

	"ge-course-scraper/api"
	"ge-course-scraper/internal/logger"
	"ge-course-scraper/internal/scheduler"

	"github.com/spf13/cobra"
)

var (
	skipInitialCycle     bool
	skipInitialDiscovery bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [--skip-initial] [--skip-discovery]",
	Short: "Serves the query API and refreshes the snapshot on a schedule.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newContainer(ctx)
		defer c.Close()

		api.SetHost(envConfig.App.AppHost + ":" + envConfig.App.AppPort)
		c.Controller.Main.CycleContext = ctx

		if c.Consumer != nil {
			if err := c.Consumer.ConsumerEntrypointStart(ctx); err != nil {
				return err
			}
		}
		if err := c.Scheduler.Schedule(ctx, envConfig.Scraper.Schedule); err != nil {
			return err
		}
		if err := c.Scheduler.ScheduleDegreeSync(ctx, envConfig.Scraper.DiscoverySchedule, c.SyncDegrees); err != nil {
			return err
		}
		c.Scheduler.Start()
		defer c.Scheduler.Stop()

		var discovering sync.WaitGroup
		if !skipInitialDiscovery {
			discovering.Add(1)
			go func() {
				defer discovering.Done()
				scheduler.SyncDegrees(ctx, c.SyncDegrees)
			}()
		}
		defer discovering.Wait()

		if !skipInitialCycle {
			c.Controller.Scraping.StartCycle(ctx)
		}
		defer c.Controller.Scraping.Wait()

		logger.Info().
			Str("schedule", envConfig.Scraper.Schedule).
			Str("discovery_schedule", envConfig.Scraper.DiscoverySchedule).
			Msg("App Started")
		return c.Route.RunServer(ctx, envConfig.App)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipInitialCycle, "skip-initial", false, "do not scrape on start-up")
	serveCmd.Flags().BoolVar(&skipInitialDiscovery, "skip-discovery", false, "do not refresh degree requirements on start-up")
}
