package messaging

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fabcatalogue/config"
	"fabcatalogue/store"
)

type fakePublisher struct {
	fail bool
	sent []string
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, _ []byte) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, topic+"/"+key)
	return nil
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOutboxDrainer_AcksOnSuccess(t *testing.T) {
	db := testDB(t)
	if err := db.EnqueueOutbox("fabcatalogue.events", []byte(`{}`), MsgEntityCreated, "country:1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := db.EnqueueOutbox("fabcatalogue.events", []byte(`{}`), MsgEntityDeleted, "country:1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pub := &fakePublisher{}
	d := NewOutboxDrainer(db, pub, 0)
	if n := d.Drain(context.Background()); n != 2 {
		t.Fatalf("sent = %d, want 2", n)
	}
	if len(pub.sent) != 2 || pub.sent[0] != "fabcatalogue.events/country:1" {
		t.Errorf("published = %v", pub.sent)
	}

	pending, err := db.ListPendingOutbox(50, maxOutboxRetries)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0 after ack", len(pending))
	}
}

func TestOutboxDrainer_RetriesOnFailure(t *testing.T) {
	db := testDB(t)
	if err := db.EnqueueOutbox("fabcatalogue.events", []byte(`{}`), MsgEntityUpdated, "project:3"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pub := &fakePublisher{fail: true}
	d := NewOutboxDrainer(db, pub, 0)
	if n := d.Drain(context.Background()); n != 0 {
		t.Fatalf("sent = %d, want 0", n)
	}

	pending, err := db.ListPendingOutbox(50, maxOutboxRetries)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", pending[0].Retries)
	}

	pub.fail = false
	if n := d.Drain(context.Background()); n != 1 {
		t.Fatalf("sent = %d, want 1 after recovery", n)
	}
}

func TestOutboxDrainer_GivesUpAfterMaxRetries(t *testing.T) {
	db := testDB(t)
	if err := db.EnqueueOutbox("fabcatalogue.events", []byte(`{}`), MsgEntityUpdated, "drawing:9"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	pub := &fakePublisher{fail: true}
	d := NewOutboxDrainer(db, pub, 0)
	for i := 0; i < maxOutboxRetries; i++ {
		d.Drain(context.Background())
	}
	pending, err := db.ListPendingOutbox(50, maxOutboxRetries)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0 once retries are exhausted", len(pending))
	}
}

func TestOutboxDrainer_StopEndsLoop(t *testing.T) {
	d := NewOutboxDrainer(testDB(t), &fakePublisher{}, time.Hour)
	d.Start()
	d.Stop()
	d.Stop()

	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatal("drain loop still running after Stop")
	}
}
