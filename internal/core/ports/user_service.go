package ports

import (
	"context"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// CreateAccountInput carries registration data.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateAccountInput carries a partial profile update. Nil fields are untouched.
type UpdateAccountInput struct {
	Name     *string
	Password *string
}

// AvatarUpload is an uploaded image as received by the transport layer.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AccountDetail is an account together with the tasks it owns.
type AccountDetail struct {
	Account *domain.Account
	Tasks   []*domain.Task
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Message string
}

// UserService defines account use cases. Mutations take the acting identity explicitly.
type UserService interface {
	Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	List(ctx context.Context, page Page) ([]*domain.Account, error)
	Get(ctx context.Context, id int64) (*AccountDetail, error)
	Update(ctx context.Context, id int64, in UpdateAccountInput, actor *domain.Identity) (*domain.Account, error)
	Delete(ctx context.Context, id int64, actor *domain.Identity) (*DeleteResult, error)
	UploadAvatar(ctx context.Context, actor *domain.Identity, file AvatarUpload) (*domain.Account, error)
}
