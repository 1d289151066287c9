// Package monitor reports the state of the local namespaces on demand.
// There is no polling loop: the execution model is cooperative, so a
// snapshot is taken only when a caller asks for one.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tasktrophy/hub/repository"
)

type Monitor struct {
	tasks      repository.TaskRepository
	messages   repository.MessageRepository
	identities repository.IdentityRepository
	logger     *zap.Logger
}

func New(tasks repository.TaskRepository, messages repository.MessageRepository, identities repository.IdentityRepository, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		tasks:      tasks,
		messages:   messages,
		identities: identities,
		logger:     logger,
	}
}

// Snapshot reads every namespace once and returns the combined status.
func (m *Monitor) Snapshot(ctx context.Context) (Status, error) {
	status := Status{LastCheck: time.Now()}

	tasks, err := m.tasks.List(ctx)
	if err != nil {
		return status, err
	}
	status.Tasks = len(tasks)

	messages, err := m.messages.List(ctx)
	if err != nil {
		return status, err
	}
	status.Messages = len(messages)

	user, err := m.identities.Get(ctx)
	if err != nil {
		return status, err
	}
	if user != nil {
		status.Authenticated = true
		status.CurrentUser = user.Name
	}

	m.logger.Debug("storage snapshot taken",
		zap.Int("tasks", status.Tasks),
		zap.Int("messages", status.Messages),
		zap.Bool("authenticated", status.Authenticated),
	)
	return status, nil
}
