package dto

import (
	"time"

	"github.com/turtacn/coursehub/internal/domain/models"
)

// LoginRequest accepts both form-encoded and JSON bodies.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	ClientIP string `form:"-" json:"-"`
}

// UserCreateRequest is the body of register, create and create_many.
type UserCreateRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=30"`
	JobTitle    string `json:"job_title" validate:"required,max=150"`
	IsSuperUser bool   `json:"is_super_user"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	JobTitle    string    `json:"job_title"`
	IsSuperUser bool      `json:"is_super_user"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterResponse is the new account plus a token for it.
type RegisterResponse struct {
	User *UserResponse `json:"user"`
	TokenResponse
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		JobTitle:    u.JobTitle,
		IsSuperUser: u.IsSuperUser,
		CreatedAt:   u.CreatedAt,
	}
}

func NewUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
