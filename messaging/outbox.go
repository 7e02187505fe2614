package messaging

import (
	"context"
	"sync"
	"time"

	"fabcatalogue/logger"
	"fabcatalogue/store"
)

// maxOutboxRetries stops a poisoned message from being retried forever.
const maxOutboxRetries = 10

// Publisher is the part of Client the drainer needs.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// OutboxStore is the part of store.DB the drainer needs.
type OutboxStore interface {
	ListPendingOutbox(limit, maxRetries int) ([]*store.OutboxMessage, error)
	AckOutbox(id int64) error
	IncrementOutboxRetries(id int64) error
	PurgeSentOutbox(olderThan time.Duration) (int64, error)
}

// OutboxDrainer periodically sends pending outbox messages.
type OutboxDrainer struct {
	db       OutboxStore
	pub      Publisher
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewOutboxDrainer(db OutboxStore, pub Publisher, interval time.Duration) *OutboxDrainer {
	return &OutboxDrainer{
		db:       db,
		pub:      pub,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (d *OutboxDrainer) Start() {
	go d.run()
}

// Stop ends the drain loop. It may be called more than once.
func (d *OutboxDrainer) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
}

func (d *OutboxDrainer) run() {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	purge := time.NewTicker(time.Hour)
	defer purge.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.Drain(context.Background())
		case <-purge.C:
			if n, err := d.db.PurgeSentOutbox(24 * time.Hour); err != nil {
				logger.Default().Warnf("outbox: purge: %v", err)
			} else if n > 0 {
				logger.Default().Debugf("outbox: purged %d sent messages", n)
			}
		}
	}
}

// Drain publishes one batch of pending messages and returns how many were sent.
func (d *OutboxDrainer) Drain(ctx context.Context) int {
	msgs, err := d.db.ListPendingOutbox(50, maxOutboxRetries)
	if err != nil {
		logger.Default().Errorf("outbox: list pending: %v", err)
		return 0
	}
	sent := 0
	for _, msg := range msgs {
		if err := d.pub.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			logger.Default().Warnf("outbox: publish to %s failed: %v", msg.Topic, err)
			if err := d.db.IncrementOutboxRetries(msg.ID); err != nil {
				logger.Default().Errorf("outbox: increment retries %d: %v", msg.ID, err)
			}
			continue
		}
		if err := d.db.AckOutbox(msg.ID); err != nil {
			logger.Default().Errorf("outbox: ack %d: %v", msg.ID, err)
			continue
		}
		sent++
	}
	return sent
}
