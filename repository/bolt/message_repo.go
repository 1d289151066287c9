package bolt

import (
	"context"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
)

type messageRepository struct {
	db       *bbolt.DB
	defaults []domain.ChatMessage
	logger   *zap.Logger
}

// NewMessageRepository returns a bbolt-backed implementation of
// MessageRepository. The messages namespace falls back to the provided
// defaults when absent or malformed.
func NewMessageRepository(db *bbolt.DB, defaults []domain.ChatMessage, logger *zap.Logger) (repository.MessageRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &messageRepository{
		db:       db,
		defaults: defaults,
		logger:   logger,
	}
	if err := r.db.Update(func(tx *bbolt.Tx) error {
		_, err := r.state(tx)
		return err
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *messageRepository) state(tx *bbolt.Tx) ([]domain.ChatMessage, error) {
	b := tx.Bucket([]byte(BucketMessages))
	var messages []domain.ChatMessage
	absent, err := readState(b, &messages)
	if err != nil {
		r.logger.Warn("discarding malformed messages record", zap.Error(err))
		absent = true
	}
	if !absent {
		return messages, nil
	}

	messages = append([]domain.ChatMessage(nil), r.defaults...)
	if err := writeState(b, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) List(ctx context.Context) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.Update(func(tx *bbolt.Tx) error {
		var err error
		messages, err = r.state(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	if msg == nil {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		messages, err := r.state(tx)
		if err != nil {
			return err
		}
		messages = append(messages, *msg)
		return writeState(tx.Bucket([]byte(BucketMessages)), messages)
	})
}
