package messaging

import (
	"context"

	"fabcatalogue/logger"
)

// ChangeHandler is called for each decoded change event.
type ChangeHandler func(env *Envelope, ev ChangeEvent)

// Consumer subscribes to the events topic and hands decoded change events to the handler.
type Consumer struct {
	client  *Client
	topic   string
	handler ChangeHandler
}

func NewConsumer(client *Client, topic string, handler ChangeHandler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	return c.client.Subscribe(ctx, c.topic, c.handleMessage)
}

func (c *Consumer) handleMessage(_ string, _, payload []byte) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		logger.Default().Warnf("consumer: decode error: %v", err)
		return
	}

	switch p := env.Payload.(type) {
	case ChangeEvent:
		c.handler(env, p)
	default:
		logger.Default().Warnf("consumer: unhandled payload type: %T", p)
	}
}
