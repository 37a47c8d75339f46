package events

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/shop-signals/metrics"
	"github.com/aluiziolira/shop-signals/models"
)

// exitRateLimitWindow is the minimum gap between exit events for one URL.
const exitRateLimitWindow = 5 * time.Minute

// lastEmissionCapacity bounds the per-URL emission memory for the lifetime
// of a page.
const lastEmissionCapacity = 128

// Memory holds the gate's page-lifetime state: the most recent emitted
// (type, SKU) pair and the last exit-emission time per observed URL. It is
// explicitly owned and injected so that multiple gates in one process (or
// test) never interfere.
type Memory struct {
	mu       sync.Mutex
	lastType string
	lastSKU  string
	lastExit *lru.Cache[string, time.Time]
}

// NewMemory builds an empty event memory.
func NewMemory() (*Memory, error) {
	cache, err := lru.New[string, time.Time](lastEmissionCapacity)
	if err != nil {
		return nil, fmt.Errorf("build emission cache: %w", err)
	}
	return &Memory{lastExit: cache}, nil
}

// Gate suppresses duplicate and rapid-fire events before they reach the
// sink. The suppression decision and its state update happen under one lock
// with no suspension in between.
type Gate struct {
	memory  *Memory
	sink    Sink
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewGate builds a gate over the given memory and sink.
func NewGate(memory *Memory, sink Sink, m *metrics.Metrics) *Gate {
	return &Gate{
		memory:  memory,
		sink:    sink,
		now:     time.Now,
		metrics: m,
	}
}

// Track forwards the event to the sink unless it is suppressed. Suppression
// is not an error.
func (g *Gate) Track(ev models.Event) error {
	sku := ""
	if ev.Product != nil {
		sku = ev.Product.SKU
	}

	g.memory.mu.Lock()
	// A missing SKU on either side never matches: SKU-less products are
	// never deduplicated against each other.
	if ev.Type == g.memory.lastType && sku != "" && sku == g.memory.lastSKU {
		g.memory.mu.Unlock()
		g.metrics.IncEvent("deduplicated")
		slog.Debug("event deduplicated", slog.String("type", ev.Type), slog.String("sku", sku))
		return nil
	}
	if ev.Type == ExitEventType {
		if emittedAt, ok := g.memory.lastExit.Get(ev.URL); ok && g.now().Sub(emittedAt) < exitRateLimitWindow {
			g.memory.mu.Unlock()
			g.metrics.IncEvent("rate_limited")
			slog.Debug("event rate limited", slog.String("url", ev.URL))
			return nil
		}
		g.memory.lastExit.Add(ev.URL, g.now())
	}
	g.memory.lastType = ev.Type
	g.memory.lastSKU = sku
	g.memory.mu.Unlock()

	g.metrics.IncEvent("emitted")
	return g.sink.TrackEvent(ev)
}
