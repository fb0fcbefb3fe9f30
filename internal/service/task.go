package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo   repo.TaskRepository
	logger *zap.Logger
}

type Option func(*TaskService)

// WithLogger sets the logger for failures that do not fail the call.
func WithLogger(logger *zap.Logger) Option {
	return func(s *TaskService) { s.logger = logger }
}

func NewTaskService(repo repo.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new task. A non-empty idempKey that was seen before
// returns the task created the first time instead of a new one, unless that
// task has been deleted since.
func (s *TaskService) Create(ctx context.Context, t model.Task, idempKey string) (model.Task, error) {
	if err := s.validate(t); err != nil {
		return t, err
	}

	if idempKey != "" {
		if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
			existing, err := s.repo.Get(ctx, existingID)
			if !errors.Is(err, repo.ErrorNotFound) {
				return existing, err
			}
		}
	}

	t.ID = 0
	resource, err := s.repo.Create(ctx, t)
	if err != nil {
		return resource, err
	}

	if idempKey != "" {
		// the task is already stored, so the call still succeeds
		if err := s.repo.SaveIdempotencyKey(ctx, idempKey, resource.ID); err != nil {
			s.logger.Error("failed to save idempotency key",
				zap.String("key", idempKey), zap.Int64("task_id", resource.ID), zap.Error(err))
		}
	}

	return resource, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// Replace overwrites the stored representation of t.ID with t.
func (s *TaskService) Replace(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.validate(t); err != nil {
		return t, err
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *TaskService) validate(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrValidation
	}
	return nil
}
