// Package events decides which candidate events reach the notification
// platform and wires the exit-intent signal to product extraction.
package events

import (
	"log/slog"

	"github.com/aluiziolira/shop-signals/models"
)

// Sink is the host platform's delivery surface. Delivery, batching, and
// retry semantics belong to the host; this module only decides what is
// handed off and when.
type Sink interface {
	SetProperties(props map[string]any) error
	TrackEvent(ev models.Event) error
}

// LogSink writes everything it receives to the structured log. It is the
// default sink for the standalone agent, where no platform is attached.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink builds a sink over the given logger, defaulting to the global
// one.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) SetProperties(props map[string]any) error {
	s.Logger.Info("properties published", slog.Any("properties", props))
	return nil
}

func (s *LogSink) TrackEvent(ev models.Event) error {
	s.Logger.Info("event tracked",
		slog.String("id", ev.ID),
		slog.String("type", ev.Type),
		slog.String("url", ev.URL),
	)
	return nil
}
