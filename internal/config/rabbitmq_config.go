package config

import (
	"fmt"

	"github.com/streadway/amqp"
)

type RabbitMqConfig struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	Env        *RabbitMqEnv
}

// NewRabbitMqConfig dials the broker and declares the trigger and refresh
// queues.
func NewRabbitMqConfig(env *RabbitMqEnv) (*RabbitMqConfig, error) {
	connection, err := amqp.Dial(env.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to establish RabbitMQ connection: %w", err)
	}
	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to establish RabbitMQ channel: %w", err)
	}
	for _, queueName := range []string{env.TriggerQueue, env.RefreshQueue} {
		if _, err := channel.QueueDeclare(
			queueName, // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			nil,       // arguments
		); err != nil {
			connection.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
	}
	return &RabbitMqConfig{
		Connection: connection,
		Channel:    channel,
		Env:        env,
	}, nil
}

func (c *RabbitMqConfig) Close() error {
	if err := c.Channel.Close(); err != nil {
		return err
	}
	return c.Connection.Close()
}
