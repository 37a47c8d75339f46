package events

import (
	"sync"
	"testing"
	"time"

	"github.com/aluiziolira/shop-signals/models"
)

type fakeSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *fakeSink) SetProperties(map[string]any) error { return nil }

func (s *fakeSink) TrackEvent(ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func newTestGate(t *testing.T, sink Sink) (*Gate, *time.Time) {
	t.Helper()
	memory, err := NewMemory()
	if err != nil {
		t.Fatalf("building memory: %v", err)
	}
	gate := NewGate(memory, sink, nil)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return now }
	return gate, &now
}

func exitEvent(sku, url string) models.Event {
	return models.Event{
		ID:      "test",
		Type:    ExitEventType,
		Product: &models.Product{SKU: sku},
		URL:     url,
	}
}

func TestGateDeduplicatesConsecutiveSKU(t *testing.T) {
	sink := &fakeSink{}
	gate, _ := newTestGate(t, sink)

	if err := gate.Track(exitEvent("LAMP-1", "https://shop.example.com/products/lamp")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Track(exitEvent("LAMP-1", "https://shop.example.com/products/lamp-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(); got != 1 {
		t.Fatalf("emissions = %d, want 1 after dedup", got)
	}
}

func TestGateMissingSKUNeverDeduplicates(t *testing.T) {
	sink := &fakeSink{}
	gate, _ := newTestGate(t, sink)

	if err := gate.Track(exitEvent("", "https://shop.example.com/products/a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Track(exitEvent("", "https://shop.example.com/products/b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(); got != 2 {
		t.Fatalf("emissions = %d, want 2 for SKU-less products", got)
	}
}

func TestGateRateLimitsSameURL(t *testing.T) {
	sink := &fakeSink{}
	gate, now := newTestGate(t, sink)
	url := "https://shop.example.com/products/lamp"

	if err := gate.Track(exitEvent("LAMP-1", url)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	*now = now.Add(4 * time.Minute)
	if err := gate.Track(exitEvent("LAMP-2", url)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(); got != 1 {
		t.Fatalf("emissions = %d, want the second exit suppressed within the window", got)
	}

	*now = now.Add(time.Minute + time.Second)
	if err := gate.Track(exitEvent("LAMP-2", url)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(); got != 2 {
		t.Fatalf("emissions = %d, want emission to resume after the window", got)
	}
}

func TestGateDifferentURLNotRateLimited(t *testing.T) {
	sink := &fakeSink{}
	gate, _ := newTestGate(t, sink)

	if err := gate.Track(exitEvent("LAMP-1", "https://shop.example.com/products/a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Track(exitEvent("LAMP-2", "https://shop.example.com/products/b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(); got != 2 {
		t.Fatalf("emissions = %d, want 2 for distinct URLs", got)
	}
}

func TestGateMemoriesAreIndependent(t *testing.T) {
	sinkA := &fakeSink{}
	sinkB := &fakeSink{}
	gateA, _ := newTestGate(t, sinkA)
	gateB, _ := newTestGate(t, sinkB)
	ev := exitEvent("LAMP-1", "https://shop.example.com/products/lamp")

	if err := gateA.Track(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gateB.Track(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sinkA.count() != 1 || sinkB.count() != 1 {
		t.Fatalf("emissions = %d/%d, want one each; gates must not share state", sinkA.count(), sinkB.count())
	}
}
