// Package feed collects mutation success signals so the outer layers can
// surface them as user-facing confirmations.
package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
)

// Feed keeps the most recent mutation signals in memory and logs each one.
// It implements usecase.EventSink.
type Feed struct {
	limit  int
	logger *zap.Logger

	mu     sync.Mutex
	events []domain.Event
}

// New creates a feed retaining at most limit signals.
func New(limit int, logger *zap.Logger) *Feed {
	if limit <= 0 {
		limit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		limit:  limit,
		logger: logger,
	}
}

// Record appends the signal, evicting the oldest once over the limit.
func (f *Feed) Record(ctx context.Context, event domain.Event) {
	f.logger.Info("mutation applied",
		zap.String("kind", string(event.Kind)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.ActorID),
	)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	if len(f.events) > f.limit {
		f.events = f.events[len(f.events)-f.limit:]
	}
}

// Recent returns up to n signals, newest last.
func (f *Feed) Recent(n int) []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 || n > len(f.events) {
		n = len(f.events)
	}
	out := make([]domain.Event, n)
	copy(out, f.events[len(f.events)-n:])
	return out
}
