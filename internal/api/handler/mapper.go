package handler

import (
	"github.com/tasklist/tasklist-api/internal/core/domain"
	"github.com/tasklist/tasklist-api/internal/core/ports"
)

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Avatar:    a.Avatar,
		CreatedAt: a.CreatedAt,
	}
}

func toUserResponses(accounts []*domain.Account) []userResponse {
	out := make([]userResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toUserResponse(a))
	}
	return out
}

func toUserDetailResponse(d *ports.AccountDetail) userDetailResponse {
	return userDetailResponse{
		userResponse: toUserResponse(d.Account),
		Tasks:        toTaskResponses(d.Tasks),
	}
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func (r updateUserRequest) toInput() ports.UpdateAccountInput {
	return ports.UpdateAccountInput{Name: r.Name, Password: r.Password}
}

func (r updateTaskRequest) toUpdate() ports.TaskUpdate {
	return ports.TaskUpdate{Name: r.Name, Description: r.Description, Completed: r.Completed}
}

func (q pageQuery) toPage() ports.Page {
	return ports.Page{Limit: q.Limit, Offset: q.Offset}
}
