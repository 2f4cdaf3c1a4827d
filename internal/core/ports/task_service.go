package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Name        string
	Description string
}

// TaskService defines task use cases. Mutations take the acting identity explicitly.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput, actor *domain.Identity) (*domain.Task, error)
	List(ctx context.Context, page Page) ([]*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, upd TaskUpdate, actor *domain.Identity) (*domain.Task, error)
	Delete(ctx context.Context, id int64, actor *domain.Identity) (*DeleteResult, error)
}
