// Package domain contains persistence models for the partner service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

// Partner is an external organization the system cooperates with.
type Partner struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_partners_name" json:"name"`
	Description string       `gorm:"type:text" json:"description"`

	ContactEmail   string `gorm:"type:text" json:"contact_email"`
	ContactPhone   string `gorm:"type:text" json:"contact_phone"`
	ContactAddress string `gorm:"type:text" json:"contact_address"`

	ContactPersonalName  string `gorm:"type:text" json:"contact_personal_name"`
	ContactPersonalPhone string `gorm:"type:text" json:"contact_personal_phone"`
	ContactPersonalEmail string `gorm:"type:text" json:"contact_personal_email"`

	Status    Status       `gorm:"type:text;not null;default:'active';index" json:"status"`
	CreatedBy snowflake.ID `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Partner) TableName() string { return "partners" }

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrNameExists      = errors.New("partner with this name already exists")
	ErrInvalidStatus   = errors.New("invalid partner status")
)

type CreatePartnerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	ContactAddress string `json:"contact_address"`

	ContactPersonalName  string `json:"contact_personal_name"`
	ContactPersonalPhone string `json:"contact_personal_phone"`
	ContactPersonalEmail string `json:"contact_personal_email"`

	Status Status `json:"status"`
}

type UpdatePartnerRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`

	ContactEmail   *string `json:"contact_email"`
	ContactPhone   *string `json:"contact_phone"`
	ContactAddress *string `json:"contact_address"`

	ContactPersonalName  *string `json:"contact_personal_name"`
	ContactPersonalPhone *string `json:"contact_personal_phone"`
	ContactPersonalEmail *string `json:"contact_personal_email"`

	Status *Status `json:"status"`
}

// ListFilter combines every supplied predicate; the total count ignores
// the pagination window.
type ListFilter struct {
	pagination.Pagination
	Name   string `form:"name"`
	Status Status `form:"status"`
	Email  string `form:"email"`
	Phone  string `form:"phone"`
}

type ListResponse struct {
	pagination.PageInfo
	Partners []Partner `json:"data"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, partner *Partner) error
	FindByID(ctx context.Context, id snowflake.ID) (*Partner, error)
	Update(ctx context.Context, partner *Partner) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) ([]Partner, int64, error)
}

type Service interface {
	Create(ctx context.Context, actor snowflake.ID, req CreatePartnerRequest) (*Partner, error)
	Get(ctx context.Context, id snowflake.ID) (*Partner, error)
	Update(ctx context.Context, id snowflake.ID, req UpdatePartnerRequest) (*Partner, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
