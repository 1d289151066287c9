package repository

import (
	"context"

	"github.com/tasktrophy/hub/domain"
)

// Credential pairs an identity with its password hash. The hash never
// leaves the repository layer's consumers in returned identities.
type Credential struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"passwordHash"`
}

// CredentialRepository holds the locally-trusted credential set. GetByEmail
// returns (nil, nil) when the email is unknown.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Append(ctx context.Context, cred *Credential) error
}
