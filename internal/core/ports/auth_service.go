package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService exchanges credentials for tokens and resolves tokens back to identities.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate verifies the raw token and checks that its subject is an
	// existing, active account. Every failure is domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
