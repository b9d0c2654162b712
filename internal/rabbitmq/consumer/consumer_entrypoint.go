package consumer

import (
	"context"
	"fmt"

	"ge-course-scraper/internal/config"
	"ge-course-scraper/internal/controllers"
)

type ConsumerEntrypoint struct {
	ScrapingConsumer *ScrapingControllerConsumer
	RabbitMQ         *config.RabbitMqConfig
}

func NewConsumerEntrypointInit(rabbitMQConfig *config.RabbitMqConfig, scrapingController *controllers.ScrapingController) *ConsumerEntrypoint {
	return &ConsumerEntrypoint{
		ScrapingConsumer: &ScrapingControllerConsumer{Controller: scrapingController},
		RabbitMQ:         rabbitMQConfig,
	}
}

// ConsumerEntrypointStart subscribes to the trigger queue and handles
// messages in the background until ctx is done.
func (e *ConsumerEntrypoint) ConsumerEntrypointStart(ctx context.Context) error {
	msgs, err := e.RabbitMQ.Channel.Consume(
		e.RabbitMQ.Env.TriggerQueue, // Queue name
		"scrape trigger consumer",   // Consumer tag
		true,                        // Auto-acknowledge
		false,                       // Exclusive
		false,                       // No-local
		false,                       // No-wait
		nil,                         // Args
	)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", e.RabbitMQ.Env.TriggerQueue, err)
	}
	go e.ScrapingConsumer.Consume(ctx, msgs)
	return nil
}
