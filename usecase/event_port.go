package usecase

import (
	"context"

	"github.com/tasktrophy/hub/domain"
)

// EventSink receives the success signal each store emits after a mutation
// persists. Implementations must not block the mutating call.
type EventSink interface {
	Record(ctx context.Context, event domain.Event)
}
