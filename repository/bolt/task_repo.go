package bolt

import (
	"context"
	"strconv"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tasktrophy/hub/domain"
	"github.com/tasktrophy/hub/repository"
)

type taskRepository struct {
	db       *bbolt.DB
	defaults []domain.Task
	logger   *zap.Logger
}

// NewTaskRepository returns a bbolt-backed implementation of
// TaskRepository. The tasks namespace falls back to the provided defaults
// when absent or malformed.
func NewTaskRepository(db *bbolt.DB, defaults []domain.Task, logger *zap.Logger) (repository.TaskRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &taskRepository{
		db:       db,
		defaults: defaults,
		logger:   logger,
	}
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return r, nil
}

// ensure seeds the namespace on first run and recovers a corrupt record.
func (r *taskRepository) ensure() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		_, err := r.state(tx)
		return err
	})
}

// state loads the full collection, reseeding defaults when the record is
// absent or does not decode. Runs inside a writable transaction so
// recovery can persist.
func (r *taskRepository) state(tx *bbolt.Tx) ([]domain.Task, error) {
	b := tx.Bucket([]byte(BucketTasks))
	var tasks []domain.Task
	absent, err := readState(b, &tasks)
	if err != nil {
		r.logger.Warn("discarding malformed tasks record", zap.Error(err))
		absent = true
	}
	if !absent {
		return tasks, nil
	}

	tasks = append([]domain.Task(nil), r.defaults...)
	if err := writeState(b, tasks); err != nil {
		return nil, err
	}
	// Keep new ids clear of the seeded ones.
	if err := b.SetSequence(maxNumericID(tasks)); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var found *domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		tasks, err := r.state(tx)
		if err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].ID == id {
				task := tasks[i]
				found = &task
				return nil
			}
		}
		return domain.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		var err error
		tasks, err = r.state(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		tasks, err := r.state(tx)
		if err != nil {
			return err
		}
		b := tx.Bucket([]byte(BucketTasks))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		task.ID = strconv.FormatUint(seq, 10)
		tasks = append(tasks, *task)
		return writeState(b, tasks)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		tasks, err := r.state(tx)
		if err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			tasks[i].Apply(patch)
			task := tasks[i]
			updated = &task
			return writeState(tx.Bucket([]byte(BucketTasks)), tasks)
		}
		return domain.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		tasks, err := r.state(tx)
		if err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			tasks = append(tasks[:i], tasks[i+1:]...)
			return writeState(tx.Bucket([]byte(BucketTasks)), tasks)
		}
		return domain.ErrTaskNotFound
	})
}

func maxNumericID(tasks []domain.Task) uint64 {
	var max uint64
	for i := range tasks {
		if n, err := strconv.ParseUint(tasks[i].ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}
