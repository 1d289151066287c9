package bolt

import (
	"context"
	"encoding/json"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
)

type identityRepository struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// NewIdentityRepository returns a bbolt-backed implementation of
// IdentityRepository. The identity namespace holds at most one record.
func NewIdentityRepository(db *bbolt.DB, logger *zap.Logger) repository.IdentityRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &identityRepository{db: db, logger: logger}
}

func (r *identityRepository) Get(ctx context.Context) (*domain.User, error) {
	var user *domain.User
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketIdentity))
		raw := b.Get(stateKey)
		if raw == nil {
			return nil
		}
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			// A corrupt identity record is dropped; the caller proceeds
			// unauthenticated.
			r.logger.Warn("discarding malformed identity record", zap.Error(err))
			return b.Delete(stateKey)
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *identityRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return writeState(tx.Bucket([]byte(BucketIdentity)), user)
	})
}

func (r *identityRepository) Clear(ctx context.Context) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketIdentity)).Delete(stateKey)
	})
}
