package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

// MinPasswordLength is the shortest password accepted on registration or change.
const MinPasswordLength = 6

// UserService implements account use cases and avatar storage.
type UserService struct {
	accounts    ports.AccountRepository
	tasks       ports.TaskRepository
	hasher      ports.PasswordHasher
	files       ports.FileStore
	cleanup     ports.CleanupQueue
	avatarLimit int64
	log         zerolog.Logger
}

// NewUserService wires the account use cases. avatarLimit <= 0 selects DefaultAvatarLimit.
func NewUserService(
	accounts ports.AccountRepository,
	tasks ports.TaskRepository,
	hasher ports.PasswordHasher,
	files ports.FileStore,
	cleanup ports.CleanupQueue,
	avatarLimit int64,
	log zerolog.Logger,
) *UserService {
	if avatarLimit <= 0 {
		avatarLimit = DefaultAvatarLimit
	}
	return &UserService{
		accounts:    accounts,
		tasks:       tasks,
		hasher:      hasher,
		files:       files,
		cleanup:     cleanup,
		avatarLimit: avatarLimit,
		log:         log,
	}
}

// Create registers a new active account.
func (s *UserService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("email must be a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.Invalid("password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Failed("could not register user", err)
	}

	created, err := s.accounts.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.log.Error().Err(err).Msg("failed to create user")
		}
		return nil, storageErr("could not register user", err)
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// List returns accounts newest first. Without a limit every account from
// page.Offset on is returned.
func (s *UserService) List(ctx context.Context, page ports.Page) ([]*domain.Account, error) {
	if page.Limit > 0 {
		page = page.Normalize()
	} else {
		page = ports.Page{Offset: max(page.Offset, 0)}
	}

	accounts, err := s.accounts.List(ctx, page)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list users")
		return nil, storageErr("could not list users", err)
	}
	return accounts, nil
}

// Get returns the account and the tasks it owns.
func (s *UserService) Get(ctx context.Context, id int64) (*ports.AccountDetail, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("could not load user", err)
	}

	tasks, err := s.tasks.ListByOwner(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to load user tasks")
		return nil, storageErr("could not load user", err)
	}

	return &ports.AccountDetail{Account: account, Tasks: tasks}, nil
}

// Update changes the name and/or password of the actor's own account.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateAccountInput, actor *domain.Identity) (*domain.Account, error) {
	account, err := s.ownedAccount(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	var upd ports.AccountUpdate
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name must not be empty")
		}
		upd.Name = &name
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, domain.Invalid("password must be at least 6 characters")
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, domain.Failed("could not update user", err)
		}
		upd.PasswordHash = &hash
	}

	if upd.Name == nil && upd.PasswordHash == nil {
		return account, nil
	}

	updated, err := s.accounts.Update(ctx, id, upd)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, storageErr("could not update user", err)
	}
	return updated, nil
}

// Delete removes the actor's own account together with its tasks.
func (s *UserService) Delete(ctx context.Context, id int64, actor *domain.Identity) (*ports.DeleteResult, error) {
	account, err := s.ownedAccount(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	removed, err := s.tasks.DeleteByOwner(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user tasks")
		return nil, storageErr("could not delete user", err)
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return nil, storageErr("could not delete user", err)
	}

	// Tasks created while the account was being removed would otherwise
	// point at a missing owner.
	late, err := s.tasks.DeleteByOwner(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to delete tasks created during user deletion")
	}
	removed += late

	if account.Avatar != "" && s.cleanup != nil {
		s.cleanup.Enqueue(ports.AvatarCleanup{AccountID: id, Filename: account.Avatar})
	}

	s.log.Info().Int64("user_id", id).Int64("tasks_removed", removed).Msg("user deleted")
	return &ports.DeleteResult{Message: "user deleted successfully"}, nil
}

// ownedAccount loads the account and checks that actor is its owner.
func (s *UserService) ownedAccount(ctx context.Context, id int64, actor *domain.Identity) (*domain.Account, error) {
	if actor == nil {
		return nil, errUnauthorized
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("could not load user", err)
	}
	if !account.OwnedBy(actor) {
		s.log.Warn().Int64("user_id", id).Int64("actor", actor.Subject).Msg("user ownership check failed")
		return nil, domain.ErrNotAccountOwner
	}
	return account, nil
}
