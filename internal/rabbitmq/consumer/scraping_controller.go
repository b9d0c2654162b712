package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"ge-course-scraper/internal/controllers"
	"ge-course-scraper/internal/logger"
	"ge-course-scraper/internal/rabbitmq/producer"

	"github.com/streadway/amqp"
)

// CycleRunner is the part of *controllers.ScrapingController the consumer drives.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*controllers.CycleResult, error)
}

type ScrapingControllerConsumer struct {
	Controller CycleRunner
}

// Handle runs a cycle for a "Start Scraping" message and ignores anything else.
// It reports whether a cycle ran.
func (c *ScrapingControllerConsumer) Handle(ctx context.Context, body []byte) bool {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Warn().Err(err).Msg("Failed to unmarshal message")
		return false
	}
	if payload["message"] != producer.StartScrapingMessage {
		logger.Warn().Interface("message", payload["message"]).Msg("Message does not match expected message. Ignoring...")
		return false
	}
	_, err := c.Controller.RunCycle(ctx)
	switch {
	case errors.Is(err, controllers.ErrCycleRunning):
		logger.Info().Msg("scrape already running, trigger skipped")
		return false
	case err != nil:
		logger.Error().Err(err).Msg("triggered scrape cycle failed")
	}
	return true
}

// Consume handles deliveries until the channel closes or ctx is done.
func (c *ScrapingControllerConsumer) Consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn().Msg("Message channel closed")
				return
			}
			c.Handle(ctx, msg.Body)
		}
	}
}
