package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
	"github.com/tasklist/tasklist-api/internal/pkg/metrics"
)

// errUnauthorized is what every rejected token resolves to, whatever the cause.
var errUnauthorized = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "unauthorized access"}

// AuthService implements login and bearer token resolution.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewAuthService wires the auth use cases. throttle may be nil to disable
// login attempt limiting.
func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// Login checks the credentials and issues a token for the account.
// Unknown email, wrong password and inactive account are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			return nil, domain.ErrLoginLocked
		}
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.loginFailed(ctx, email, "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("login lookup failed")
		return nil, domain.Failed("could not authenticate", err)
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.loginFailed(ctx, email, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Active {
		s.loginFailed(ctx, email, "inactive")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, account)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", account.ID).Msg("token issue failed")
		return nil, domain.Failed("could not authenticate", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", account.ID).Msg("user logged in")

	return &ports.LoginResult{Token: token, Account: account}, nil
}

// Authenticate resolves a raw bearer token into a verified identity whose
// subject is an existing, active account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, s.reject("missing_token", nil)
	}

	identity, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, s.reject("invalid_token", err)
	}

	account, err := s.accounts.FindByID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.reject("account_missing", err)
		}
		s.log.Warn().Err(err).Int64("user_id", identity.Subject).Msg("identity lookup failed")
		return nil, s.reject("lookup_failed", err)
	}
	if !account.Active {
		return nil, s.reject("account_inactive", nil)
	}

	return identity, nil
}

func (s *AuthService) reject(reason string, cause error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	s.log.Debug().Err(cause).Str("reason", reason).Msg("request not authenticated")
	return errUnauthorized
}

func (s *AuthService) loginFailed(ctx context.Context, email, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
	s.log.Debug().Str("reason", reason).Msg("login rejected")
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
