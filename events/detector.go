package events

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aluiziolira/shop-signals/models"
)

// ExitEventType is the event type emitted on page-exit intent.
const ExitEventType = "Exit"

// PointerLeave is a page-level pointer-leave signal. HasRelatedTarget is
// true when the pointer moved to another element within the page; only a
// leave with no related target counts as exit intent. The heuristic has
// known false positives and negatives across browsers and is kept as is.
type PointerLeave struct {
	HasRelatedTarget bool
}

// Extractor yields the current page's product, or nil when there is none.
type Extractor interface {
	Extract(ctx context.Context) *models.Product
}

// Detector wires the exit-intent signal to product extraction and gated
// emission.
type Detector struct {
	extractor Extractor
	gate      *Gate
	pageURL   string
	signals   <-chan PointerLeave
}

// NewDetector builds a detector for the page at pageURL, fed by the given
// signal channel.
func NewDetector(extractor Extractor, gate *Gate, pageURL string, signals <-chan PointerLeave) *Detector {
	return &Detector{
		extractor: extractor,
		gate:      gate,
		pageURL:   pageURL,
		signals:   signals,
	}
}

// Run consumes signals until the context is cancelled or the channel is
// closed. No extraction or emission failure stops the loop.
func (d *Detector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case signal, ok := <-d.signals:
			if !ok {
				return
			}
			if signal.HasRelatedTarget {
				continue
			}
			d.handleExit(ctx)
		}
	}
}

func (d *Detector) handleExit(ctx context.Context) {
	p := d.extractor.Extract(ctx)
	if p == nil {
		return
	}
	ev := models.Event{
		ID:      uuid.NewString(),
		Type:    ExitEventType,
		Product: p,
		URL:     d.pageURL,
	}
	if err := d.gate.Track(ev); err != nil {
		slog.Warn("track event failed", slog.String("type", ev.Type), slog.Any("error", err))
	}
}
