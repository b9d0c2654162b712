package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ge-course-scraper/internal/config"
	"ge-course-scraper/internal/container"
	"ge-course-scraper/internal/logger"

	"github.com/spf13/cobra"
)

var envConfig *config.EnvConfig

var rootCmd = &cobra.Command{
	Use:   "gescraper",
	Short: "gescraper scrapes GE course sections and serves them over HTTP.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envConfig = config.NewEnvConfig()
		logger.Configure(logger.Config{
			Level:  logger.ParseLevel(envConfig.Log.Level),
			Pretty: envConfig.Log.Pretty,
			Output: os.Stderr,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, scrapeCmd, discoverCmd)
}

// newContainer builds the application with the Chrome backend.
func newContainer(ctx context.Context) *container.Container {
	c, err := container.NewContainer(ctx, envConfig, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise")
	}
	return c
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
