package messaging

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"fabcatalogue/config"
	"fabcatalogue/logger"
)

type MessageHandler func(topic string, key, payload []byte)

type Client struct {
	mu       sync.RWMutex
	cfg      *config.MessagingConfig
	kafka    *kafkaState
	handlers map[string]MessageHandler
}

type kafkaState struct {
	readers map[string]*kafka.Reader
	writer  *kafka.Writer
}

func NewClient(cfg *config.MessagingConfig) *Client {
	return &Client{
		cfg:      cfg,
		handlers: make(map[string]MessageHandler),
	}
}

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}

	var conn *kafka.Conn
	var connErr error
	for _, broker := range c.cfg.Kafka.Brokers {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, connErr = kafka.DialContext(ctx, "tcp", broker)
		cancel()
		if connErr == nil {
			logger.Default().Infof("messaging: kafka connected to %s", broker)
			break
		}
	}
	if connErr != nil {
		return fmt.Errorf("kafka connect: %w", connErr)
	}

	c.ensureTopics(conn, c.cfg.EventsTopic)
	conn.Close()

	c.kafka = &kafkaState{
		readers: make(map[string]*kafka.Reader),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(c.cfg.Kafka.Brokers...),
			Balancer: &kafka.Hash{},
		},
	}
	return nil
}

// Publish writes one message. Messages with the same key land on the same
// partition, so changes to one record stay ordered.
func (c *Client) Publish(ctx context.Context, topic, key string, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.kafka == nil || c.kafka.writer == nil {
		return fmt.Errorf("kafka not connected")
	}
	return c.kafka.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

// ensureTopics creates Kafka topics if they don't already exist. Errors are
// logged but not fatal since the broker may auto-create topics anyway.
func (c *Client) ensureTopics(conn *kafka.Conn, topics ...string) {
	if len(topics) == 0 {
		return
	}

	controller, err := conn.Controller()
	if err != nil {
		logger.Default().Warnf("messaging: cannot find controller for topic creation: %v", err)
		return
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := kafka.Dial("tcp", controllerAddr)
	if err != nil {
		logger.Default().Warnf("messaging: cannot connect to controller: %v", err)
		return
	}
	defer controllerConn.Close()

	configs := make([]kafka.TopicConfig, len(topics))
	for i, t := range topics {
		configs[i] = kafka.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}

	if err := controllerConn.CreateTopics(configs...); err != nil {
		logger.Default().Warnf("messaging: topic auto-create: %v", err)
	} else {
		logger.Default().Infof("messaging: ensured topics exist: %v", topics)
	}
}

// Subscribe starts a consumer-group reader on topic. Reading stops when ctx
// is cancelled or the client is closed.
func (c *Client) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[topic] = handler

	if c.kafka == nil {
		return fmt.Errorf("kafka not connected")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Kafka.Brokers,
		Topic:   topic,
		GroupID: c.cfg.Kafka.GroupID,
	})
	c.kafka.readers[topic] = reader
	go func() {
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				return
			}
			handler(msg.Topic, msg.Key, msg.Value)
		}
	}()
	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kafka != nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kafka != nil {
		for _, r := range c.kafka.readers {
			r.Close()
		}
		if c.kafka.writer != nil {
			c.kafka.writer.Close()
		}
		c.kafka = nil
	}
}
