package events

import (
	"context"
	"testing"
	"time"

	"github.com/aluiziolira/shop-signals/models"
)

type fakeExtractor struct {
	product *models.Product
	calls   int
}

func (f *fakeExtractor) Extract(context.Context) *models.Product {
	f.calls++
	return f.product
}

func runDetector(t *testing.T, extractor Extractor, sink Sink, signals []PointerLeave) {
	t.Helper()
	memory, err := NewMemory()
	if err != nil {
		t.Fatalf("building memory: %v", err)
	}
	gate := NewGate(memory, sink, nil)

	ch := make(chan PointerLeave, len(signals))
	for _, signal := range signals {
		ch <- signal
	}
	close(ch)

	NewDetector(extractor, gate, "https://shop.example.com/products/lamp", ch).Run(context.Background())
}

func TestDetectorEmitsOnViewportExit(t *testing.T) {
	sink := &fakeSink{}
	extractor := &fakeExtractor{product: &models.Product{Name: "Lamp", SKU: "LAMP-1"}}

	runDetector(t, extractor, sink, []PointerLeave{{}})

	if sink.count() != 1 {
		t.Fatalf("emissions = %d, want 1", sink.count())
	}
	ev := sink.events[0]
	if ev.Type != ExitEventType {
		t.Fatalf("type = %q, want %q", ev.Type, ExitEventType)
	}
	if ev.ID == "" {
		t.Fatal("event id must be set")
	}
	if ev.URL != "https://shop.example.com/products/lamp" {
		t.Fatalf("url = %q, want the page url", ev.URL)
	}
	if ev.Product == nil || ev.Product.SKU != "LAMP-1" {
		t.Fatalf("product = %+v, want the extracted one", ev.Product)
	}
}

func TestDetectorIgnoresLeavesWithRelatedTarget(t *testing.T) {
	sink := &fakeSink{}
	extractor := &fakeExtractor{product: &models.Product{SKU: "LAMP-1"}}

	runDetector(t, extractor, sink, []PointerLeave{{HasRelatedTarget: true}, {HasRelatedTarget: true}})

	if extractor.calls != 0 {
		t.Fatalf("extractions = %d, want none for in-page pointer moves", extractor.calls)
	}
	if sink.count() != 0 {
		t.Fatalf("emissions = %d, want none", sink.count())
	}
}

func TestDetectorSkipsNonProductPages(t *testing.T) {
	sink := &fakeSink{}
	extractor := &fakeExtractor{product: nil}

	runDetector(t, extractor, sink, []PointerLeave{{}})

	if extractor.calls != 1 {
		t.Fatalf("extractions = %d, want 1", extractor.calls)
	}
	if sink.count() != 0 {
		t.Fatalf("emissions = %d, want none when extraction yields nothing", sink.count())
	}
}

func TestDetectorStopsOnContextCancel(t *testing.T) {
	memory, err := NewMemory()
	if err != nil {
		t.Fatalf("building memory: %v", err)
	}
	gate := NewGate(memory, &fakeSink{}, nil)
	detector := NewDetector(&fakeExtractor{}, gate, "https://shop.example.com", make(chan PointerLeave))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		detector.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
