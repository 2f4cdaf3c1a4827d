package domain

import "time"

// Task is a unit of work owned by exactly one account.
type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether the identity owns the task.
func (t *Task) OwnedBy(id *Identity) bool {
	return id != nil && t.OwnerID == id.Subject
}
