package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*Event
	emitErr error
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic.
	EmitAsync(nil, context.Background(), NewEvent(EventSessionCreated, "u1", "agent-A"))
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), nil)

	time.Sleep(10 * time.Millisecond)
	if got := emitter.getEvents(); len(got) != 0 {
		t.Errorf("expected 0 events, got %d", len(got))
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), NewEvent(EventSessionRenewed, "u1", "agent-A"))

	time.Sleep(100 * time.Millisecond)
	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != EventSessionRenewed {
		t.Errorf("event type = %q, want %q", events[0].EventType, EventSessionRenewed)
	}
	if events[0].UserID != "u1" || events[0].Fingerprint != "agent-A" {
		t.Errorf("identity = %q %q", events[0].UserID, events[0].Fingerprint)
	}
}

func TestEmitAsync_UsesBackgroundContext(t *testing.T) {
	emitter := &mockEventEmitter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // request context already gone

	EmitAsync(emitter, ctx, NewEvent(EventSessionEnded, "u1", "agent-A"))

	time.Sleep(100 * time.Millisecond)
	if got := emitter.getEvents(); len(got) != 1 {
		t.Errorf("expected 1 event (context.Background used), got %d", len(got))
	}
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	emitter := &mockEventEmitter{emitErr: errors.New("sink down")}
	EmitAsync(emitter, context.Background(), NewEvent(EventRenewalDenied, "", "agent-A"))

	// Error is logged, not surfaced; nothing to assert beyond no panic.
	time.Sleep(100 * time.Millisecond)
}

func TestMultiEmitter_FansOutAndKeepsFirstError(t *testing.T) {
	a := &mockEventEmitter{}
	b := &mockEventEmitter{emitErr: errors.New("b down")}
	c := &mockEventEmitter{}

	multi := MultiEmitter{a, nil, b, c}
	err := multi.Emit(context.Background(), NewEvent(EventSessionCreated, "u1", "agent-A"))
	if err == nil || err.Error() != "b down" {
		t.Errorf("err = %v, want first failure", err)
	}
	for i, em := range []*mockEventEmitter{a, b, c} {
		if got := em.getEvents(); len(got) != 1 {
			t.Errorf("emitter %d: expected 1 event, got %d", i, len(got))
		}
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	ev := NewEvent(EventRegistration, "u1", "agent-A")
	after := time.Now().UTC()

	if ev.EventType != EventRegistration || ev.UserID != "u1" || ev.Fingerprint != "agent-A" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Source != "dzen-api" {
		t.Errorf("source = %q", ev.Source)
	}
	if ev.CreatedAt.Before(before) || ev.CreatedAt.After(after) {
		t.Errorf("created_at = %v", ev.CreatedAt)
	}
}
