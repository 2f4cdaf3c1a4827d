package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// PasswordHasher hashes and checks passwords with a salted adaptive algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenService issues and verifies signed identity tokens.
type TokenService interface {
	Issue(ctx context.Context, account *domain.Account) (string, error)
	// Verify returns domain.ErrInvalidToken for any signature, expiry,
	// issuer or audience failure.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
