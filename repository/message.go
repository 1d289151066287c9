package repository

import (
	"context"

	"github.com/tasktrophy/hub/domain"
)

type MessageRepository interface {
	List(ctx context.Context) ([]domain.ChatMessage, error)
	Append(ctx context.Context, msg *domain.ChatMessage) error
}
