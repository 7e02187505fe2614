package engine

// Record* bridges handlers to the EventBus. Call only after the store write succeeded.

func (e *Engine) RecordCreated(entity, key, label, actor string) {
	e.Events.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{
		Entity: entity,
		Key:    key,
		Action: "created",
		Label:  label,
		Actor:  actor,
	}})
}

func (e *Engine) RecordUpdated(entity, key string, fields []string, actor string) {
	e.Events.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{
		Entity: entity,
		Key:    key,
		Action: "updated",
		Fields: fields,
		Actor:  actor,
	}})
}

func (e *Engine) RecordDeleted(entity, key, label, actor string) {
	e.Events.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{
		Entity: entity,
		Key:    key,
		Action: "deleted",
		Label:  label,
		Actor:  actor,
	}})
}

// RecordAction covers the actions that are neither create, update nor delete,
// such as promoting a user or attaching a file.
func (e *Engine) RecordAction(entity, key, action, label, actor string) {
	e.Events.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{
		Entity: entity,
		Key:    key,
		Action: action,
		Label:  label,
		Actor:  actor,
	}})
}
