package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
	"github.com/tasktrophy/hub/usecase"
)

// Store owns the task collection. It enforces no authorization itself:
// route guards decide who may call what, and tests call mutations
// directly.
type Store struct {
	tasks  repository.TaskRepository
	events usecase.EventSink
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, events usecase.EventSink, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		tasks:  tasks,
		events: events,
		logger: logger,
	}
}

// Input carries the caller-supplied fields of a new task.
type Input struct {
	Title       string
	Description string
	AssignedTo  domain.User
	Priority    domain.Priority
	DueDate     string
}

// ListVisible returns the viewer's visible set in stable insertion order:
// everything for admins, otherwise only tasks assigned to the viewer. A
// nil viewer sees nothing.
func (s *Store) ListVisible(ctx context.Context, viewer *domain.User) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, nil
	}
	if viewer.IsAdmin() {
		return tasks, nil
	}

	var visible []domain.Task
	for _, t := range tasks {
		if t.AssignedTo.ID == viewer.ID {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// Add creates a task assigned by actor. Status is forced to pending and
// both user references are snapshotted at this moment.
func (s *Store) Add(ctx context.Context, in Input, actor *domain.User) (*domain.Task, error) {
	if actor == nil {
		return nil, domain.ErrInvalidPayload
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  *actor,
		Priority:    in.Priority,
		Status:      domain.StatusPending,
		DueDate:     in.DueDate,
		CreatedAt:   time.Now(),
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.EventTaskCreated, created.ID, actor.ID)
	return created, nil
}

// Update merges the patch into the task with the given id.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.EventTaskUpdated, id, "")
	return updated, nil
}

// Complete marks the task completed and stamps CompletedAt. Re-invoking on
// an already-completed task simply re-stamps CompletedAt; that is the
// contract, not an oversight.
func (s *Store) Complete(ctx context.Context, id string) (*domain.Task, error) {
	now := time.Now()
	status := domain.StatusCompleted
	completed, err := s.tasks.Update(ctx, id, domain.TaskPatch{
		Status:      &status,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.EventTaskCompleted, id, "")
	return completed, nil
}

// Delete removes the task permanently. Derived views recompute on their
// next read; there is no other cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, domain.EventTaskDeleted, id, "")
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Store) emit(ctx context.Context, kind domain.EventKind, entityID, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Record(ctx, domain.Event{
		Kind:     kind,
		EntityID: entityID,
		ActorID:  actorID,
		At:       time.Now(),
	})
}
