package handler

import "time"

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// updateUserRequest uses pointers so an omitted field is left untouched.
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=120"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type createTaskRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// updateTaskRequest uses pointers so "description": "" and "completed": false
// are applied rather than ignored.
type updateTaskRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

type pageQuery struct {
	Limit  int `query:"limit"  validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

// --- Response types ---

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type userDetailResponse struct {
	userResponse
	Tasks []taskResponse `json:"tasks"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the envelope rendered by the HTTP error handler.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Message    string `json:"message"`
	Path       string `json:"path"`
}
