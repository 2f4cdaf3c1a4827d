package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
	"github.com/tasklist/tasklist-api/internal/pkg/metrics"
)

// DefaultAvatarLimit is the largest avatar accepted when none is configured.
const DefaultAvatarLimit = 3 << 20

// avatarTypes maps sniffed content types to the extensions accepted for them.
var avatarTypes = map[string][]string{
	"image/jpeg": {"jpg", "jpeg"},
	"image/png":  {"png"},
}

// UploadAvatar stores the image as "<accountId>.<ext>" and records it on the
// actor's account. Any previous avatar with the same name is overwritten.
func (s *UserService) UploadAvatar(ctx context.Context, actor *domain.Identity, file ports.AvatarUpload) (*domain.Account, error) {
	if actor == nil {
		return nil, errUnauthorized
	}

	ext, err := s.avatarExtension(file)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, actor.Subject)
	if err != nil {
		return nil, storageErr("could not update avatar", err)
	}

	filename := AvatarFilename(actor.Subject, ext)
	if err := s.files.Write(ctx, filename, file.Data); err != nil {
		s.log.Error().Err(err).Str("file", filename).Msg("failed to write avatar")
		return nil, domain.Failed("could not update avatar", err)
	}

	updated, err := s.accounts.Update(ctx, actor.Subject, ports.AccountUpdate{Avatar: &filename})
	if err != nil {
		// The file is on disk but no record points at it.
		s.enqueueCleanup(actor.Subject, filename)
		s.log.Error().Err(err).Str("file", filename).Msg("failed to record avatar")
		return nil, storageErr("could not update avatar", err)
	}

	if account.Avatar != "" && account.Avatar != filename {
		s.enqueueCleanup(actor.Subject, account.Avatar)
	}

	metrics.AvatarUploadsTotal.WithLabelValues(ext).Inc()
	s.log.Info().Int64("user_id", actor.Subject).Str("file", filename).Msg("avatar updated")
	return updated, nil
}

// Reconcile removes job.Filename unless account job.AccountID still uses it.
func (s *UserService) Reconcile(ctx context.Context, job ports.AvatarCleanup) error {
	account, err := s.accounts.FindByID(ctx, job.AccountID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return fmt.Errorf("reconcile avatar %s: %w", job.Filename, err)
	case account.Avatar == job.Filename:
		return nil
	}

	if err := s.files.Remove(ctx, job.Filename); err != nil {
		return fmt.Errorf("reconcile avatar %s: %w", job.Filename, err)
	}
	s.log.Info().Int64("user_id", job.AccountID).Str("file", job.Filename).Msg("orphaned avatar removed")
	return nil
}

// SweepAvatars queues every stored avatar for reconciliation and returns the
// number of queued files. Files whose name is not "<id>.<ext>" are left alone.
func (s *UserService) SweepAvatars(ctx context.Context) (int, error) {
	names, err := s.files.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep avatars: %w", err)
	}

	queued := 0
	for _, name := range names {
		id, ok := parseAvatarFilename(name)
		if !ok {
			continue
		}
		s.enqueueCleanup(id, name)
		queued++
	}
	return queued, nil
}

// AvatarFilename returns the stored name of an account's avatar.
func AvatarFilename(accountID int64, ext string) string {
	return strconv.FormatInt(accountID, 10) + "." + ext
}

func (s *UserService) avatarExtension(file ports.AvatarUpload) (string, error) {
	size := int64(len(file.Data))
	if size == 0 {
		return "", domain.Invalid("file is required")
	}
	if size > s.avatarLimit {
		return "", domain.Invalid(fmt.Sprintf("file exceeds the maximum size of %d bytes", s.avatarLimit))
	}

	sniffed := http.DetectContentType(file.Data)
	allowed, ok := avatarTypes[sniffed]
	if !ok {
		return "", domain.Invalid("file must be a jpeg or png image")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext == "" {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", domain.Invalid("file extension does not match its content")
}

func (s *UserService) enqueueCleanup(accountID int64, filename string) {
	if s.cleanup == nil {
		return
	}
	s.cleanup.Enqueue(ports.AvatarCleanup{AccountID: accountID, Filename: filename})
}

func parseAvatarFilename(name string) (int64, bool) {
	base, ext, ok := strings.Cut(name, ".")
	if !ok || ext == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(base, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
