package engine

import (
	"strings"

	"fabcatalogue/messaging"
)

func (e *Engine) wireEventHandlers() {
	// Every committed mutation is audited, then mirrored to the outbox
	e.Events.SubscribeChanges(func(ev EntityChangedEvent) {
		e.audit(ev)
		if e.messagingEnabled() {
			e.enqueueChange(ev)
		}
	})

	e.Events.SubscribeConnection(func(_ bool, ev ConnectionEvent) {
		e.logFn("engine: %s", ev.Detail)
	})
}

func (e *Engine) audit(ev EntityChangedEvent) {
	var oldValue, newValue string
	switch ev.Action {
	case "deleted":
		oldValue = ev.Label
	case "updated":
		newValue = strings.Join(ev.Fields, ", ")
	default:
		newValue = ev.Label
	}
	if err := e.db.AppendAudit(ev.Entity, ev.Key, ev.Action, oldValue, newValue, ev.Actor); err != nil {
		e.logFn("engine: audit %s %s %s: %v", ev.Entity, ev.Key, ev.Action, err)
	}
}

func (e *Engine) enqueueChange(ev EntityChangedEvent) {
	msgType := messaging.MsgTypeForAction(ev.Action)
	env := messaging.NewEnvelope(msgType, e.cfg.Messaging.Source, messaging.ChangeEvent{
		Entity: ev.Entity,
		Key:    ev.Key,
		Action: ev.Action,
		Fields: ev.Fields,
		Actor:  ev.Actor,
	})
	data, err := env.Encode()
	if err != nil {
		e.logFn("engine: encode change event: %v", err)
		return
	}
	if err := e.db.EnqueueOutbox(e.cfg.Messaging.EventsTopic, data, msgType, ev.Entity+":"+ev.Key); err != nil {
		e.logFn("engine: enqueue change event: %v", err)
	}
}
