package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Get(ctx context.Context, id snowflake.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page pagination.Pagination) ([]User, int64, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateUserRequest) (*User, error)
	UpdateMe(ctx context.Context, id snowflake.ID, req UpdateMeRequest) (*User, error)
	UpdatePassword(ctx context.Context, id snowflake.ID, req UpdatePasswordRequest) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	UpdateThemes(ctx context.Context, id snowflake.ID, req UpdateThemesRequest) (*User, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type UpdateMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateThemesRequest struct {
	ThemeMode *ThemeMode `json:"themes_mode"`
	Lang      *Lang      `json:"lang"`
}
