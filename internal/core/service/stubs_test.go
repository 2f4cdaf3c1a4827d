package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Account
	updateErr error
	listErr   error
	updates   int
	// beforeDelete runs inside Delete before the account is removed.
	beforeDelete func(id int64)
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	c := cloneAccount(a)
	c.ID = r.nextID
	r.byID[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) List(_ context.Context, page ports.Page) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page), nil
}

func (r *stubAccountRepo) Update(_ context.Context, id int64, upd ports.AccountUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.updates++
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		a.PasswordHash = *upd.PasswordHash
	}
	if upd.Avatar != nil {
		a.Avatar = *upd.Avatar
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	if r.beforeDelete != nil {
		r.beforeDelete(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

// seed stores an active account directly and returns its id.
func (r *stubAccountRepo) seed(name, email string) int64 {
	a, _ := r.Create(context.Background(), &domain.Account{Name: name, Email: email, PasswordHash: "hashed:secret", Active: true})
	return a.ID
}

// ---------------------------------------------------------------------------
// In-memory task repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Task
	createErr error
	deleteErr error
	writes    int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[int64]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	c := cloneTask(t)
	c.ID = r.nextID
	r.byID[c.ID] = c
	r.writes++
	return cloneTask(c), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// sorted returns all tasks newest first; ids grow with creation order.
func (r *stubTaskRepo) sorted() []*domain.Task {
	out := make([]*domain.Task, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *stubTaskRepo) List(_ context.Context, page ports.Page) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return window(r.sorted(), page), nil
}

func (r *stubTaskRepo) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.sorted() {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, id int64, upd ports.TaskUpdate) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.writes++
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	r.writes++
	return nil
}

func (r *stubTaskRepo) DeleteByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.byID {
		if t.OwnerID == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func window[T any](items []T, page ports.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if page.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

// ---------------------------------------------------------------------------
// Security stubs
// ---------------------------------------------------------------------------

type stubHasher struct {
	err error
}

func (h stubHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h stubHasher) Compare(hash, password string) bool {
	return hash == "hashed:"+password
}

// stubTokens issues "token-<id>" and verifies the same format.
type stubTokens struct {
	issueErr error
}

func (s stubTokens) Issue(_ context.Context, a *domain.Account) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return "token-" + strconv.FormatInt(a.ID, 10), nil
}

func (s stubTokens) Verify(_ context.Context, token string) (*domain.Identity, error) {
	raw, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{Subject: id}, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) Blocked(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

// ---------------------------------------------------------------------------
// File store and cleanup queue stubs
// ---------------------------------------------------------------------------

type stubFileStore struct {
	files    map[string][]byte
	writeErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string][]byte)}
}

func (f *stubFileStore) Write(_ context.Context, name string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[name] = append([]byte(nil), data...)
	return nil
}

func (f *stubFileStore) Remove(_ context.Context, name string) error {
	delete(f.files, name)
	return nil
}

func (f *stubFileStore) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.files))
	for n := range f.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

type stubCleanupQueue struct {
	jobs []ports.AvatarCleanup
}

func (q *stubCleanupQueue) Enqueue(job ports.AvatarCleanup) {
	q.jobs = append(q.jobs, job)
}

var errDBDown = errors.New("db unavailable")
