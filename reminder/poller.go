// Package reminder runs the adaptive cart polling loop and derives the
// reminder properties published to the host platform.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/shop-signals/config"
	"github.com/aluiziolira/shop-signals/metrics"
	"github.com/aluiziolira/shop-signals/models"
)

// DefaultInterval is the base polling interval.
const DefaultInterval = 3 * time.Second

// unsubscribedCadence is the duty cycle for unsubscribed visitors: cart data
// is ten times less actionable without a reachable subscriber, so only one
// tick in ten does the work.
const unsubscribedCadence = 10

// CartFetcher retrieves the current cart. It must fail on non-2xx responses
// and transport errors.
type CartFetcher interface {
	FetchCart(ctx context.Context) (models.Cart, error)
}

// SubscriptionFunc reports whether the visitor is subscribed to
// notifications. The capability is optional: a nil function means the poller
// skips its work and keeps the base cadence.
type SubscriptionFunc func(ctx context.Context) (bool, error)

// PropertySink receives the derived reminder properties.
type PropertySink interface {
	SetProperties(props map[string]any) error
}

// Translator localizes a known source string, returning the input unchanged
// when no translation exists.
type Translator func(text string) string

// Poller periodically snapshots the cart and publishes reminder properties.
// It is a two-state machine (running or stopped) driving a single one-shot
// timer: each tick schedules the next only after its own work settles, so
// ticks never overlap and a slow fetch simply delays the loop.
type Poller struct {
	cfg          config.ReminderConfig
	baseURL      string
	fetcher      CartFetcher
	isSubscribed SubscriptionFunc
	sink         PropertySink
	translate    Translator
	interval     time.Duration
	metrics      *metrics.Metrics

	mu       sync.Mutex
	running  bool
	runCount int
	timer    *time.Timer
}

// NewPoller builds a poller. interval <= 0 falls back to DefaultInterval;
// isSubscribed may be nil; translate may be nil for untranslated defaults.
func NewPoller(cfg config.ReminderConfig, baseURL string, fetcher CartFetcher, isSubscribed SubscriptionFunc, sink PropertySink, translate Translator, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if translate == nil {
		translate = func(text string) string { return text }
	}
	return &Poller{
		cfg:          cfg,
		baseURL:      baseURL,
		fetcher:      fetcher,
		isSubscribed: isSubscribed,
		sink:         sink,
		translate:    translate,
		interval:     interval,
		metrics:      m,
	}
}

// Start begins the loop. Calling Start while a timer is already scheduled
// only flips the running flag; a second loop is never created.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	if p.timer != nil {
		return
	}
	p.timer = time.AfterFunc(0, p.tick)
}

// Stop cancels the pending timer and halts the loop. Work already in flight
// is not aborted; it runs to completion as the last tick. Stop on a stopped
// poller is a no-op, and the poller may be restarted afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Poller) tick() {
	p.mu.Lock()
	p.timer = nil
	p.runCount++
	if !p.running {
		p.mu.Unlock()
		return
	}
	run := p.runCount
	p.mu.Unlock()

	ctx := context.Background()

	if p.isSubscribed == nil {
		p.metrics.IncTick("skipped")
		p.scheduleNext()
		return
	}

	subscribed, err := p.isSubscribed(ctx)
	if err != nil {
		slog.Debug("subscription check failed", slog.Any("error", err))
		subscribed = false
	}

	if shouldUpdate(subscribed, run) {
		p.metrics.IncTick("worked")
		if err := p.Update(ctx); err != nil {
			slog.Warn("cart update failed", slog.Any("error", err))
		}
	} else {
		p.metrics.IncTick("skipped")
	}

	p.scheduleNext()
}

// shouldUpdate applies the duty cycle: every tick while subscribed, one tick
// in unsubscribedCadence otherwise.
func shouldUpdate(subscribed bool, runCount int) bool {
	if subscribed {
		return true
	}
	return runCount%unsubscribedCadence == 1
}

func (p *Poller) scheduleNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.timer != nil {
		return
	}
	p.timer = time.AfterFunc(p.interval, p.tick)
}

// Update fetches the cart once, derives the reminder properties, and
// publishes them to the sink.
func (p *Poller) Update(ctx context.Context) error {
	cart, err := p.fetcher.FetchCart(ctx)
	if err != nil {
		p.metrics.IncUpdate("error")
		return fmt.Errorf("fetch cart: %w", err)
	}

	props := DeriveProperties(cart, p.cfg, p.baseURL, p.translate)
	if err := p.sink.SetProperties(props.Map()); err != nil {
		p.metrics.IncUpdate("error")
		return fmt.Errorf("publish properties: %w", err)
	}
	p.metrics.IncUpdate("ok")
	return nil
}
