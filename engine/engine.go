// Package engine holds the running application: its store, validator, auth
// gate, blob store, messaging client and the event bus that ties mutations to
// the audit log and the outbox.
package engine

import (
	"sync"
	"time"

	"fabcatalogue/auth"
	"fabcatalogue/blobstore"
	"fabcatalogue/config"
	"fabcatalogue/logger"
	"fabcatalogue/messaging"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig *config.Config
	DB        *store.DB
	Validator *schema.Validator
	Gate      *auth.Gate
	Blobs     blobstore.Store
	MsgClient *messaging.Client
	LogFunc   LogFunc
}

type Engine struct {
	cfg          *config.Config
	db           *store.DB
	validator    *schema.Validator
	gate         *auth.Gate
	blobs        blobstore.Store
	msgClient    *messaging.Client
	drainer      *messaging.OutboxDrainer
	Events       *EventBus
	logFn        LogFunc
	stopChan     chan struct{}
	stopOnce     sync.Once
	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = logger.Printf
	}
	return &Engine{
		cfg:       c.AppConfig,
		db:        c.DB,
		validator: c.Validator,
		gate:      c.Gate,
		blobs:     c.Blobs,
		msgClient: c.MsgClient,
		Events:    NewEventBus(),
		logFn:     logFn,
		stopChan:  make(chan struct{}),
	}
}

// Start wires the event handlers. With messaging enabled it also starts the
// outbox drainer and the connection health loop.
func (e *Engine) Start() {
	e.wireEventHandlers()

	if e.messagingEnabled() {
		e.drainer = messaging.NewOutboxDrainer(e.db, e.msgClient, e.cfg.Messaging.OutboxDrainInterval)
		e.drainer.Start()
		e.checkConnectionStatus()
		go e.connectionHealthLoop()
	}

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
	if e.drainer != nil {
		e.drainer.Stop()
	}
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                { return e.db }
func (e *Engine) AppConfig() *config.Config    { return e.cfg }
func (e *Engine) Validator() *schema.Validator { return e.validator }
func (e *Engine) Gate() *auth.Gate             { return e.gate }
func (e *Engine) Blobs() blobstore.Store       { return e.blobs }
func (e *Engine) MsgClient() *messaging.Client { return e.msgClient }

func (e *Engine) messagingEnabled() bool {
	return e.msgClient != nil && e.cfg != nil && e.cfg.Messaging.Enabled
}

// MessagingConnected reports the last known broker state; false when messaging is off.
func (e *Engine) MessagingConnected() bool {
	return e.messagingEnabled() && e.msgClient.IsConnected()
}

func (e *Engine) checkConnectionStatus() {
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
		return
	}
	if e.msgConnected {
		e.msgConnected = false
		e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
	}
	if err := e.msgClient.Connect(); err != nil {
		e.logFn("engine: messaging reconnect: %v", err)
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
