package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
	"github.com/tasktrophy/hub/usecase"
)

// Store owns the current authenticated identity. It is the root
// dependency: the task and chat stores derive their views from whoever is
// current here. Identity is a locally-trusted claim, not a verified
// credential.
type Store struct {
	identities  repository.IdentityRepository
	credentials repository.CredentialRepository
	events      usecase.EventSink
	logger      *zap.Logger
	delay       time.Duration

	mu      sync.RWMutex
	current *domain.User
}

// New builds the identity store. delay is the simulated network latency
// login and register pause for; pass zero to disable it.
func New(identities repository.IdentityRepository, credentials repository.CredentialRepository, events usecase.EventSink, logger *zap.Logger, delay time.Duration) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		identities:  identities,
		credentials: credentials,
		events:      events,
		logger:      logger,
		delay:       delay,
	}
}

// Restore adopts a previously persisted identity. A malformed record has
// already been discarded by the repository, so any remaining record is
// well-formed. Must run before dependent stores read Current.
func (s *Store) Restore(ctx context.Context) error {
	user, err := s.identities.Get(ctx)
	if err != nil {
		return err
	}
	s.setCurrent(user)
	if user != nil {
		s.logger.Info("identity restored", zap.String("user_id", user.ID))
	}
	return nil
}

// Login verifies the credential record for email and makes its user
// current. The returned identity never carries the password hash. Once
// started the call always resolves or fails; there is no cancellation.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.simulateLatency()

	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user := cred.User
	if err := s.identities.Save(ctx, &user); err != nil {
		return nil, err
	}
	s.setCurrent(&user)
	s.emit(ctx, domain.EventLoggedIn, user.ID)
	s.logger.Info("login succeeded", zap.String("user_id", user.ID))
	return &user, nil
}

// Register creates a new identity with role fixed to "user" and makes it
// current. Role elevation is never available through self-registration.
func (s *Store) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	s.simulateLatency()

	existing, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      domain.RoleUser,
		AvatarRef: domain.AvatarRef(email),
	}
	if err := s.credentials.Append(ctx, &repository.Credential{
		User:         user,
		PasswordHash: string(hash),
	}); err != nil {
		return nil, err
	}
	if err := s.identities.Save(ctx, &user); err != nil {
		return nil, err
	}
	s.setCurrent(&user)
	s.emit(ctx, domain.EventRegistered, user.ID)
	s.logger.Info("registration succeeded", zap.String("user_id", user.ID))
	return &user, nil
}

// Logout clears the current user and its persisted record. There is no
// server-side session to invalidate.
func (s *Store) Logout(ctx context.Context) error {
	actorID := ""
	if u := s.Current(); u != nil {
		actorID = u.ID
	}
	if err := s.identities.Clear(ctx); err != nil {
		return err
	}
	s.setCurrent(nil)
	s.emit(ctx, domain.EventLoggedOut, actorID)
	return nil
}

// Current returns a copy of the current user, or nil when unauthenticated.
func (s *Store) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAdmin()
}

func (s *Store) setCurrent(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = user
}

func (s *Store) simulateLatency() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

func (s *Store) emit(ctx context.Context, kind domain.EventKind, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Record(ctx, domain.Event{
		Kind:    kind,
		ActorID: actorID,
		At:      time.Now(),
	})
}
