package repository

import (
	"context"

	"github.com/tasktrophy/hub/domain"
)

// IdentityRepository persists the single current-user record. Get returns
// (nil, nil) when no identity is stored.
type IdentityRepository interface {
	Get(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}
