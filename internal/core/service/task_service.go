package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
	"github.com/tasklist/tasklist-api/internal/pkg/metrics"
)

// TaskService implements task use cases with per-task ownership checks.
type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

// Create stores a new, not yet completed task owned by actor.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput, actor *domain.Identity) (*domain.Task, error) {
	if actor == nil {
		return nil, errUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}

	task, err := s.repo.Create(ctx, &domain.Task{
		Name:        name,
		Description: in.Description,
		Completed:   false,
		OwnerID:     actor.Subject,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", actor.Subject).Msg("failed to create task")
		return nil, storageErr("could not create task", err)
	}

	metrics.TasksCreatedTotal.Inc()
	s.log.Info().Int64("task_id", task.ID).Int64("user_id", actor.Subject).Msg("task created")
	return task, nil
}

// List returns a page of tasks, newest first.
func (s *TaskService) List(ctx context.Context, page ports.Page) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx, page.Normalize())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tasks")
		return nil, storageErr("could not list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("could not load task", err)
	}
	return task, nil
}

// Update applies the fields present in upd to a task owned by actor.
func (s *TaskService) Update(ctx context.Context, id int64, upd ports.TaskUpdate, actor *domain.Identity) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, domain.Invalid("name must not be empty")
		}
		upd.Name = &name
	}
	if upd.Empty() {
		return task, nil
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		return nil, storageErr("could not update task", err)
	}
	return updated, nil
}

// Delete removes a task owned by actor.
func (s *TaskService) Delete(ctx context.Context, id int64, actor *domain.Identity) (*ports.DeleteResult, error) {
	if _, err := s.ownedTask(ctx, id, actor); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to delete task")
		return nil, storageErr("could not delete task", err)
	}

	s.log.Info().Int64("task_id", id).Int64("user_id", actor.Subject).Msg("task deleted")
	return &ports.DeleteResult{Message: "task deleted successfully"}, nil
}

func (s *TaskService) ownedTask(ctx context.Context, id int64, actor *domain.Identity) (*domain.Task, error) {
	if actor == nil {
		return nil, errUnauthorized
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("could not load task", err)
	}
	if !task.OwnedBy(actor) {
		s.log.Warn().Int64("task_id", id).Int64("actor", actor.Subject).Msg("task ownership check failed")
		return nil, domain.ErrNotTaskOwner
	}
	return task, nil
}
