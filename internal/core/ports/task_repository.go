package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// TaskUpdate lists the fields to overwrite. Nil means "leave as is".
type TaskUpdate struct {
	Name        *string
	Description *string
	Completed   *bool
}

// Empty reports whether the update carries no field at all.
func (u TaskUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Completed == nil
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	// List returns a window of all tasks ordered by creation time, newest first.
	List(ctx context.Context, page Page) ([]*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	Update(ctx context.Context, id int64, upd TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByOwner removes every task owned by ownerID and returns how many were removed.
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
