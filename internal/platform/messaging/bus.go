package messaging

import (
	"context"
	"log/slog"
	"sync"

	"clubsync/contexts/club-governance/election-service/ports"
)

// Bus is the in-process publish/subscribe fabric for election lifecycle
// events. Delivery is best-effort: a slow subscriber drops events rather than
// blocking the publishing request.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan ports.EventEnvelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan ports.EventEnvelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	b.mu.RLock()
	subs := append([]chan ports.EventEnvelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_type", event.EventType,
			)
		}
	}
	return nil
}

// Subscribe registers a buffered channel for one topic. Callers own draining.
func (b *Bus) Subscribe(topic string, buffer int) <-chan ports.EventEnvelope {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan ports.EventEnvelope, buffer)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}
