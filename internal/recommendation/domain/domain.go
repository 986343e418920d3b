// Package domain contains persistence models for recommendations.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

// TargetType names the kind of record a recommendation points at.
type TargetType string

const (
	TargetEvent        TargetType = "event"
	TargetPartner      TargetType = "partner"
	TargetPartnerEvent TargetType = "partner_event"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetEvent, TargetPartner, TargetPartnerEvent:
		return true
	default:
		return false
	}
}

// Recommendation is a suggestion attached to an event, partner or
// partner event. CreatedBy holds the author's email so the entry stays
// readable even after the account is removed.
type Recommendation struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TargetType TargetType   `gorm:"type:text;not null;index:ix_recommendations_target" json:"target_type"`
	TargetID   snowflake.ID `gorm:"not null;index:ix_recommendations_target" json:"target_id"`
	Title      string       `gorm:"type:text;not null" json:"title"`
	Content    string       `gorm:"type:text" json:"content"`
	Status     string       `gorm:"type:text;not null;default:'active';index" json:"status"`
	CreatedBy  string       `gorm:"type:text;not null" json:"created_by"`
	ApprovedBy *string      `gorm:"type:text" json:"approved_by"`
	ApprovedAt *time.Time   `json:"approved_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Recommendation) TableName() string { return "recommendations" }

const StatusApproved = "approved"

var (
	ErrNotFound          = errors.New("recommendation not found")
	ErrInvalidTargetType = errors.New("invalid recommendation target type")
	ErrTargetNotFound    = errors.New("recommendation target not found")
	ErrMissingTitle      = errors.New("recommendation title is required")
	ErrAlreadyApproved   = errors.New("recommendation already approved")
)

type CreateRequest struct {
	TargetType TargetType   `json:"target_type" binding:"required"`
	TargetID   snowflake.ID `json:"target_id" binding:"required"`
	Title      string       `json:"title" binding:"required"`
	Content    string       `json:"content"`
	Status     string       `json:"status"`
}

type UpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

type ListFilter struct {
	pagination.Pagination
	TargetType TargetType    `form:"target_type"`
	TargetID   *snowflake.ID `form:"target_id"`
	Status     string        `form:"status"`
}

type ListResponse struct {
	pagination.PageInfo
	Recommendations []Recommendation `json:"data"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *Recommendation) error
	FindByID(ctx context.Context, id snowflake.ID) (*Recommendation, error)
	Update(ctx context.Context, rec *Recommendation) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) ([]Recommendation, int64, error)
}

type Service interface {
	Create(ctx context.Context, creatorEmail string, req CreateRequest) (*Recommendation, error)
	Get(ctx context.Context, id snowflake.ID) (*Recommendation, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Recommendation, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	Approve(ctx context.Context, id snowflake.ID, approverEmail string) (*Recommendation, error)
}
