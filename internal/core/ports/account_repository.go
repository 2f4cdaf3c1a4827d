package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// AccountUpdate lists the fields to overwrite. Nil means "leave as is".
type AccountUpdate struct {
	Name         *string
	PasswordHash *string
	Avatar       *string
}

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create assigns the next id and stores the account. A duplicate email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// List returns accounts ordered by creation time, newest first. A zero
	// page.Limit returns every account from page.Offset on.
	List(ctx context.Context, page Page) ([]*domain.Account, error)
	// Update applies upd and returns the stored record.
	Update(ctx context.Context, id int64, upd AccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}
