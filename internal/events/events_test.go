package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) snapshot() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	e := New(PaymentRecorded, "g1", "p1", WithPeriod(3, 2024), WithAmount(150.5), WithActor("u1"))

	if e.ID == "" {
		t.Error("expected an event id")
	}
	if e.Type != PaymentRecorded || e.GroupID != "g1" || e.SubjectID != "p1" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Month != 3 || e.Year != 2024 || e.Amount != 150.5 || e.ActorID != "u1" {
		t.Errorf("options not applied: %+v", e)
	}

	body, err := e.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["type"] != "payment.recorded" {
		t.Errorf("type = %v", decoded["type"])
	}
}

func TestRoutingKey(t *testing.T) {
	if got := routingKey("payments", PaymentDeleted); got != "payments.payment.deleted" {
		t.Errorf("routingKey = %q", got)
	}
	if got := routingKey("", ExpensePaymentRecorded); got != "expense_payment.recorded" {
		t.Errorf("routingKey = %q", got)
	}
}

func TestWorker_PublishesAndDrains(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewWorker(pub, 10, discardLogger())
	w.Start()

	for i := 0; i < 5; i++ {
		w.Emit(New(PaymentRecorded, "g1", "p"))
	}
	w.Stop()

	if got := len(pub.snapshot()); got != 5 {
		t.Errorf("published %d events, want 5", got)
	}

	// Stop is idempotent.
	w.Stop()
}

func TestWorker_PublishErrorDoesNotStop(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	w := NewWorker(pub, 10, discardLogger())
	w.Start()

	w.Emit(New(PaymentDeleted, "g1", "p1"))
	w.Emit(New(PaymentDeleted, "g1", "p2"))
	w.Stop()

	if got := len(pub.snapshot()); got != 2 {
		t.Errorf("attempted %d publishes, want 2", got)
	}
}

func TestWorker_DropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	w := NewWorker(pub, 1, discardLogger())

	// Not started: the buffer holds one event and the rest are dropped.
	done := make(chan struct{})
	go func() {
		w.Emit(New(PaymentRecorded, "g1", "a"))
		w.Emit(New(PaymentRecorded, "g1", "b"))
		w.Emit(New(PaymentRecorded, "g1", "c"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}

	close(pub.block)
	w.Start()
	w.Stop()

	events := pub.snapshot()
	if len(events) != 1 || events[0].SubjectID != "a" {
		t.Errorf("expected only the first event, got %+v", events)
	}
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(discardLogger())
	if err := p.Publish(context.Background(), New(PaymentConfirmed, "g1", "p1")); err != nil {
		t.Errorf("Publish failed: %v", err)
	}
}
