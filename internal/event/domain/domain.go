// Package domain contains persistence models for the event service.
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
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type ExchangeLevel string

const (
	LevelLow    ExchangeLevel = "low"
	LevelMedium ExchangeLevel = "medium"
	LevelHigh   ExchangeLevel = "high"
	LevelTop    ExchangeLevel = "top"
)

func (l ExchangeLevel) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh, LevelTop:
		return true
	default:
		return false
	}
}

// Event is a standalone calendar event.
type Event struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	StartTime        time.Time     `gorm:"not null;index" json:"start_time"`
	Location         string        `gorm:"type:text;not null" json:"location"`
	ExchangeLevel    ExchangeLevel `gorm:"type:text;not null;default:'medium'" json:"exchange_level"`
	RelatedDocuments string        `gorm:"type:text" json:"related_documents"`
	AdditionalInfo   string        `gorm:"type:text" json:"additional_info"`
	Status           Status        `gorm:"type:text;not null;default:'scheduled';index" json:"status"`
	CreatedBy        snowflake.ID  `gorm:"not null;index" json:"created_by"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "events" }

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrInvalidStatus        = errors.New("invalid event status")
	ErrInvalidExchangeLevel = errors.New("invalid exchange level")
	ErrMissingStartTime     = errors.New("start time is required")
	ErrMissingLocation      = errors.New("location is required")
)

type CreateEventRequest struct {
	StartTime        time.Time     `json:"start_time" binding:"required"`
	Location         string        `json:"location" binding:"required"`
	ExchangeLevel    ExchangeLevel `json:"exchange_level"`
	RelatedDocuments string        `json:"related_documents"`
	AdditionalInfo   string        `json:"additional_info"`
	Status           Status        `json:"status"`
}

type UpdateEventRequest struct {
	StartTime        *time.Time     `json:"start_time"`
	Location         *string        `json:"location"`
	ExchangeLevel    *ExchangeLevel `json:"exchange_level"`
	RelatedDocuments *string        `json:"related_documents"`
	AdditionalInfo   *string        `json:"additional_info"`
	Status           *Status        `json:"status"`
}

type ListFilter struct {
	pagination.Pagination
	Status        Status        `form:"status"`
	ExchangeLevel ExchangeLevel `form:"exchange_level"`
	StartDate     *time.Time    `form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate       *time.Time    `form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ListResponse struct {
	pagination.PageInfo
	Events []Event `json:"data"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id snowflake.ID) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) ([]Event, int64, error)
}

type Service interface {
	Create(ctx context.Context, actor snowflake.ID, req CreateEventRequest) (*Event, error)
	Get(ctx context.Context, id snowflake.ID) (*Event, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateEventRequest) (*Event, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
