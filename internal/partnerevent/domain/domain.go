// Package domain contains persistence models for partner events and
// their nested schedules and delegation members.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartnerEvent is an event hosted together with a partner. Schedules
// and delegation members hang off it and are removed with it.
type PartnerEvent struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	PartnerID   snowflake.ID `gorm:"not null;index" json:"partner_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	StartTime   time.Time    `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time   `json:"end_time"`
	Location    string       `gorm:"type:text" json:"location"`
	Status      string       `gorm:"type:text;not null;default:'active';index" json:"status"`
	CreatedBy   snowflake.ID `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PartnerEvent) TableName() string { return "partner_events" }

// EventSchedule is one agenda item inside a partner event. Attachment
// holds object-storage metadata for an uploaded file, if any.
type EventSchedule struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	EventID    snowflake.ID      `gorm:"not null;index" json:"event_id"`
	Time       time.Time         `gorm:"not null" json:"time"`
	Location   string            `gorm:"type:text" json:"location"`
	Detail     string            `gorm:"type:text" json:"detail"`
	Attachment datatypes.JSONMap `gorm:"type:json" json:"attachment"`
	Status     string            `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (EventSchedule) TableName() string { return "event_schedules" }

// DelegationMember is one person on the delegation attending a partner
// event. At most the representative flag distinguishes the head of the
// delegation.
type DelegationMember struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID          snowflake.ID `gorm:"not null;index" json:"event_id"`
	FullName         string       `gorm:"type:text;not null" json:"full_name"`
	Position         string       `gorm:"type:text" json:"position"`
	Phone            string       `gorm:"type:text" json:"phone"`
	Email            string       `gorm:"type:text" json:"email"`
	IsRepresentative bool         `gorm:"not null;default:false" json:"is_representative"`
	Status           string       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DelegationMember) TableName() string { return "delegation_members" }

var (
	ErrEventNotFound    = errors.New("partner event not found")
	ErrScheduleNotFound = errors.New("event schedule not found")
	ErrMemberNotFound   = errors.New("delegation member not found")
	ErrPartnerNotFound  = errors.New("partner not found")
	ErrMissingName      = errors.New("event name is required")
	ErrMissingFullName  = errors.New("member full name is required")
	ErrInvalidTimeRange = errors.New("end time must not be before start time")
)

type CreateEventRequest struct {
	PartnerID   snowflake.ID `json:"partner_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	StartTime   time.Time    `json:"start_time" binding:"required"`
	EndTime     *time.Time   `json:"end_time"`
	Location    string       `json:"location"`
	Status      string       `json:"status"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
}

type CreateScheduleRequest struct {
	Time       time.Time         `json:"time" binding:"required"`
	Location   string            `json:"location"`
	Detail     string            `json:"detail"`
	Attachment datatypes.JSONMap `json:"attachment"`
	Status     string            `json:"status"`
}

type UpdateScheduleRequest struct {
	Time       *time.Time        `json:"time"`
	Location   *string           `json:"location"`
	Detail     *string           `json:"detail"`
	Attachment datatypes.JSONMap `json:"attachment"`
	Status     *string           `json:"status"`
}

type CreateMemberRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Position         string `json:"position"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	IsRepresentative bool   `json:"is_representative"`
	Status           string `json:"status"`
}

type UpdateMemberRequest struct {
	FullName         *string `json:"full_name"`
	Position         *string `json:"position"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	IsRepresentative *bool   `json:"is_representative"`
	Status           *string `json:"status"`
}

type ListFilter struct {
	pagination.Pagination
	PartnerID *snowflake.ID `form:"partner_id"`
	Name      string        `form:"name"`
	Status    string        `form:"status"`
	StartDate *time.Time    `form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   *time.Time    `form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ListResponse struct {
	pagination.PageInfo
	Events []PartnerEvent `json:"data"`
}

// EventDetail is an event together with its nested collections.
type EventDetail struct {
	PartnerEvent
	Schedules []EventSchedule    `json:"schedules"`
	Members   []DelegationMember `json:"delegation_members"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, event *PartnerEvent) error
	FindByID(ctx context.Context, id snowflake.ID) (*PartnerEvent, error)
	Update(ctx context.Context, event *PartnerEvent) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) ([]PartnerEvent, int64, error)

	CreateSchedule(ctx context.Context, schedule *EventSchedule) error
	FindSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) (*EventSchedule, error)
	ListSchedules(ctx context.Context, eventID snowflake.ID) ([]EventSchedule, error)
	UpdateSchedule(ctx context.Context, schedule *EventSchedule) error
	DeleteSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) error
	DeleteSchedules(ctx context.Context, eventID snowflake.ID) error

	CreateMember(ctx context.Context, member *DelegationMember) error
	FindMember(ctx context.Context, eventID, memberID snowflake.ID) (*DelegationMember, error)
	ListMembers(ctx context.Context, eventID snowflake.ID) ([]DelegationMember, error)
	UpdateMember(ctx context.Context, member *DelegationMember) error
	DeleteMember(ctx context.Context, eventID, memberID snowflake.ID) error
	DeleteMembers(ctx context.Context, eventID snowflake.ID) error
}

type Service interface {
	Create(ctx context.Context, actor snowflake.ID, req CreateEventRequest) (*PartnerEvent, error)
	Get(ctx context.Context, id snowflake.ID) (*EventDetail, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateEventRequest) (*PartnerEvent, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	AddSchedule(ctx context.Context, eventID snowflake.ID, req CreateScheduleRequest) (*EventSchedule, error)
	UpdateSchedule(ctx context.Context, eventID, scheduleID snowflake.ID, req UpdateScheduleRequest) (*EventSchedule, error)
	RemoveSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) error

	AddMember(ctx context.Context, eventID snowflake.ID, req CreateMemberRequest) (*DelegationMember, error)
	UpdateMember(ctx context.Context, eventID, memberID snowflake.ID, req UpdateMemberRequest) (*DelegationMember, error)
	RemoveMember(ctx context.Context, eventID, memberID snowflake.ID) error
}
