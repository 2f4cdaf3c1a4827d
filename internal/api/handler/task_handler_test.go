package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

type stubTaskService struct {
	createFn func(ctx context.Context, in ports.CreateTaskInput, actor *domain.Identity) (*domain.Task, error)
	listFn   func(ctx context.Context, page ports.Page) ([]*domain.Task, error)
	getFn    func(ctx context.Context, id int64) (*domain.Task, error)
	updateFn func(ctx context.Context, id int64, upd ports.TaskUpdate, actor *domain.Identity) (*domain.Task, error)
	deleteFn func(ctx context.Context, id int64, actor *domain.Identity) (*ports.DeleteResult, error)
}

func (s *stubTaskService) Create(ctx context.Context, in ports.CreateTaskInput, actor *domain.Identity) (*domain.Task, error) {
	return s.createFn(ctx, in, actor)
}

func (s *stubTaskService) List(ctx context.Context, page ports.Page) ([]*domain.Task, error) {
	return s.listFn(ctx, page)
}

func (s *stubTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) Update(ctx context.Context, id int64, upd ports.TaskUpdate, actor *domain.Identity) (*domain.Task, error) {
	return s.updateFn(ctx, id, upd, actor)
}

func (s *stubTaskService) Delete(ctx context.Context, id int64, actor *domain.Identity) (*ports.DeleteResult, error) {
	return s.deleteFn(ctx, id, actor)
}

func TestTaskHandler_Create(t *testing.T) {
	actor := &domain.Identity{Subject: 4}
	stub := &stubTaskService{
		createFn: func(_ context.Context, in ports.CreateTaskInput, got *domain.Identity) (*domain.Task, error) {
			if got != actor || in.Name != "Write report" || in.Description != "quarterly" {
				t.Fatalf("unexpected call: %+v %+v", in, got)
			}
			return &domain.Task{ID: 9, Name: in.Name, Description: in.Description, OwnerID: got.Subject}, nil
		},
	}
	c, rec := newContext(request{method: http.MethodPost, target: "/tasks", body: `{"name":"Write report","description":"quarterly"}`, identity: actor})

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	got := decode[taskResponse](t, rec)
	if got.ID != 9 || got.UserID != 4 || got.Completed {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestTaskHandler_Create_RequiresIdentity(t *testing.T) {
	c, _ := newContext(request{method: http.MethodPost, target: "/tasks", body: `{"name":"x"}`})

	if code := httpStatus(t, NewTaskHandler(&stubTaskService{}).Create(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestTaskHandler_List_DefaultsAndQuery(t *testing.T) {
	var seen []ports.Page
	stub := &stubTaskService{
		listFn: func(_ context.Context, page ports.Page) ([]*domain.Task, error) {
			seen = append(seen, page)
			return []*domain.Task{}, nil
		},
	}

	for _, target := range []string{"/tasks", "/tasks?limit=1&offset=1"} {
		c, rec := newContext(request{method: http.MethodGet, target: target})
		if err := NewTaskHandler(stub).List(c); err != nil {
			t.Fatalf("%s: handler error: %v", target, err)
		}
		if rec.Body.String() != "[]\n" {
			t.Fatalf("%s: expected empty JSON array, got %q", target, rec.Body.String())
		}
	}

	if seen[0] != (ports.Page{}) {
		t.Fatalf("omitted query should pass zero page, got %+v", seen[0])
	}
	if seen[1] != (ports.Page{Limit: 1, Offset: 1}) {
		t.Fatalf("unexpected page: %+v", seen[1])
	}
}

func TestTaskHandler_List_BadQuery(t *testing.T) {
	for _, target := range []string{"/tasks?limit=abc", "/tasks?offset=-1"} {
		c, _ := newContext(request{method: http.MethodGet, target: target})
		if code := httpStatus(t, NewTaskHandler(&stubTaskService{}).List(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, code)
		}
	}
}

func TestTaskHandler_Get_NotFound(t *testing.T) {
	stub := &stubTaskService{
		getFn: func(context.Context, int64) (*domain.Task, error) { return nil, domain.ErrTaskNotFound },
	}
	c, _ := newContext(request{method: http.MethodGet, target: "/tasks/5", id: "5"})

	if err := NewTaskHandler(stub).Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskHandler_Update_PresenceBased(t *testing.T) {
	actor := &domain.Identity{Subject: 1}
	stub := &stubTaskService{
		updateFn: func(_ context.Context, id int64, upd ports.TaskUpdate, got *domain.Identity) (*domain.Task, error) {
			if id != 5 || got != actor {
				t.Fatalf("unexpected call: %d %+v", id, got)
			}
			if upd.Name != nil {
				t.Fatal("omitted name must stay nil")
			}
			if upd.Description == nil || *upd.Description != "" {
				t.Fatal("explicit empty description must be passed")
			}
			if upd.Completed == nil || *upd.Completed {
				t.Fatal("explicit false must be passed")
			}
			return &domain.Task{ID: 5, Name: "kept", OwnerID: 1}, nil
		},
	}
	c, rec := newContext(request{method: http.MethodPatch, target: "/tasks/5", id: "5", body: `{"description":"","completed":false}`, identity: actor})

	if err := NewTaskHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode[taskResponse](t, rec); got.Name != "kept" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestTaskHandler_Update_ForbiddenPropagates(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(context.Context, int64, ports.TaskUpdate, *domain.Identity) (*domain.Task, error) {
			return nil, domain.ErrNotTaskOwner
		},
	}
	c, _ := newContext(request{method: http.MethodPatch, target: "/tasks/5", id: "5", body: `{"completed":true}`, identity: &domain.Identity{Subject: 2}})

	if err := NewTaskHandler(stub).Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	stub := &stubTaskService{
		deleteFn: func(_ context.Context, id int64, actor *domain.Identity) (*ports.DeleteResult, error) {
			return &ports.DeleteResult{Message: "task deleted successfully"}, nil
		},
	}
	c, rec := newContext(request{method: http.MethodDelete, target: "/tasks/5", id: "5", identity: &domain.Identity{Subject: 1}})

	if err := NewTaskHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := decode[messageResponse](t, rec); got.Message != "task deleted successfully" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}
