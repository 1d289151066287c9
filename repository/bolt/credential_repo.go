package bolt

import (
	"context"
	"strings"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
)

type credentialRepository struct {
	db       *bbolt.DB
	defaults []repository.Credential
	logger   *zap.Logger
}

// NewCredentialRepository returns a bbolt-backed implementation of
// CredentialRepository seeded with the default credential set on first run.
func NewCredentialRepository(db *bbolt.DB, defaults []repository.Credential, logger *zap.Logger) (repository.CredentialRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &credentialRepository{
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

func (r *credentialRepository) state(tx *bbolt.Tx) ([]repository.Credential, error) {
	b := tx.Bucket([]byte(BucketCredentials))
	var creds []repository.Credential
	absent, err := readState(b, &creds)
	if err != nil {
		r.logger.Warn("discarding malformed credentials record", zap.Error(err))
		absent = true
	}
	if !absent {
		return creds, nil
	}

	creds = append([]repository.Credential(nil), r.defaults...)
	if err := writeState(b, creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*repository.Credential, error) {
	var found *repository.Credential
	err := r.db.Update(func(tx *bbolt.Tx) error {
		creds, err := r.state(tx)
		if err != nil {
			return err
		}
		for i := range creds {
			if strings.EqualFold(creds[i].User.Email, email) {
				cred := creds[i]
				found = &cred
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *credentialRepository) Append(ctx context.Context, cred *repository.Credential) error {
	if cred == nil {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		creds, err := r.state(tx)
		if err != nil {
			return err
		}
		creds = append(creds, *cred)
		return writeState(tx.Bucket([]byte(BucketCredentials)), creds)
	})
}
