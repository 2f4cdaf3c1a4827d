package ports

import "context"

// FileStore writes avatar files under a fixed content root.
type FileStore interface {
	Write(ctx context.Context, name string, data []byte) error
	Remove(ctx context.Context, name string) error
	// List returns the names of all stored files.
	List(ctx context.Context) ([]string, error)
}

// AvatarCleanup asks the cleanup workers to drop Filename unless AccountID
// still references it.
type AvatarCleanup struct {
	AccountID int64
	Filename  string
}

// CleanupQueue accepts avatar cleanup jobs.
type CleanupQueue interface {
	Enqueue(job AvatarCleanup)
}

// AvatarReconciler removes avatar files that no account references.
type AvatarReconciler interface {
	Reconcile(ctx context.Context, job AvatarCleanup) error
}
