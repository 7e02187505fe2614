package messaging

import (
	"strings"
	"testing"
)

func TestDecodeEnvelope_ChangeEvent(t *testing.T) {
	data := []byte(`{
		"msg_type": "entity_updated",
		"msg_id": "abc-123",
		"source": "fabcatalogue",
		"timestamp": "2026-02-17T12:00:00Z",
		"payload": {
			"entity": "country",
			"key": "4",
			"action": "updated",
			"fields": ["country"],
			"actor": "ccosades"
		}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.MsgType != MsgEntityUpdated {
		t.Errorf("msg_type = %q, want %q", env.MsgType, MsgEntityUpdated)
	}
	if env.MsgID != "abc-123" {
		t.Errorf("msg_id = %q, want %q", env.MsgID, "abc-123")
	}
	if env.Source != "fabcatalogue" {
		t.Errorf("source = %q, want %q", env.Source, "fabcatalogue")
	}

	ev, ok := env.Payload.(ChangeEvent)
	if !ok {
		t.Fatalf("payload type = %T, want ChangeEvent", env.Payload)
	}
	if ev.Entity != "country" || ev.Key != "4" || ev.Action != "updated" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Fields) != 1 || ev.Fields[0] != "country" {
		t.Errorf("fields = %v, want [country]", ev.Fields)
	}
	if ev.Actor != "ccosades" {
		t.Errorf("actor = %q, want %q", ev.Actor, "ccosades")
	}
}

func TestDecodeEnvelope_UnknownType(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"msg_type": "order_request", "payload": {}}`))
	if err == nil || !strings.Contains(err.Error(), "unknown msg_type") {
		t.Fatalf("err = %v, want unknown msg_type", err)
	}
}

func TestDecodeEnvelope_InvalidJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestEnvelopeEncodeDecode(t *testing.T) {
	env := NewEnvelope(MsgTypeForAction("deleted"), "fabcatalogue", ChangeEvent{
		Entity: "manufacture",
		Key:    "2-5",
		Action: "deleted",
		Actor:  "lvarro",
	})
	if env.MsgID == "" {
		t.Fatal("expected a message id")
	}
	if env.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MsgType != MsgEntityDeleted {
		t.Errorf("msg_type = %q, want %q", got.MsgType, MsgEntityDeleted)
	}
	ev := got.Payload.(ChangeEvent)
	if ev.Key != "2-5" {
		t.Errorf("key = %q, want 2-5", ev.Key)
	}
	if ev.Fields != nil {
		t.Errorf("fields = %v, want nil", ev.Fields)
	}
}

func TestMsgTypeForAction(t *testing.T) {
	cases := map[string]string{
		"created": MsgEntityCreated,
		"updated": MsgEntityUpdated,
		"deleted": MsgEntityDeleted,
		"promoted": MsgEntityUpdated,
	}
	for action, want := range cases {
		if got := MsgTypeForAction(action); got != want {
			t.Errorf("MsgTypeForAction(%q) = %q, want %q", action, got, want)
		}
	}
}
