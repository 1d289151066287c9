package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
	"github.com/tasktrophy/hub/usecase"
)

// Store owns the shared message log. Unlike tasks, chat is a single
// channel with no per-user visibility: everyone reads everything.
type Store struct {
	messages repository.MessageRepository
	events   usecase.EventSink
	logger   *zap.Logger
}

func New(messages repository.MessageRepository, events usecase.EventSink, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		messages: messages,
		events:   events,
		logger:   logger,
	}
}

// History returns the full log, oldest first. No pagination: the log is
// always materialized whole.
func (s *Store) History(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.messages.List(ctx)
}

// Send appends a message stamped with a snapshot of the actor. A nil
// actor or whitespace-only text is a silent no-op, returning (nil, nil).
func (s *Store) Send(ctx context.Context, text string, actor *domain.User) (*domain.ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if actor == nil || trimmed == "" {
		return nil, nil
	}

	msg := &domain.ChatMessage{
		ID:        uuid.NewString(),
		Text:      trimmed,
		Sender:    *actor,
		Timestamp: time.Now(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Record(ctx, domain.Event{
			Kind:     domain.EventMessageSent,
			EntityID: msg.ID,
			ActorID:  actor.ID,
			At:       time.Now(),
		})
	}
	return msg, nil
}
