package producer

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher is the part of *amqp.Channel the producers use.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func publishJSON(channel Publisher, queueName string, payload map[string]interface{}) error {
	messageBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message body: %w", err)
	}
	message := amqp.Publishing{
		ContentType: "application/json",
		Body:        messageBody,
	}
	if err := channel.Publish(
		"",        // exchange
		queueName, // queue name
		false,     // mandatory
		false,     // immediate
		message,   // message to publish
	); err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", queueName, err)
	}
	return nil
}
