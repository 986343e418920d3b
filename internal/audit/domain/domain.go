// Package domain defines the audit trail contracts.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type LogResult string

const (
	ResultSuccess LogResult = "success"
	ResultFailed  LogResult = "failed"
)

// AuditLog is an append-only record of a mutating action's outcome.
type AuditLog struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CreatedBy snowflake.ID `gorm:"not null;index" json:"created_by"`
	Status    LogResult    `gorm:"type:text;not null;index" json:"status"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

type ListRequest struct {
	pagination.Pagination
	Status    LogResult
	CreatedBy *snowflake.ID
	StartAt   *time.Time
	EndAt     *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]AuditLog, int64, error)
}

type Service interface {
	// Record writes an entry on the provided handle. Passing the
	// transaction handle ties the entry to the caller's commit; passing
	// nil uses the base connection.
	Record(ctx context.Context, tx *gorm.DB, actor snowflake.ID, status LogResult, content string) error
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidStatus    = errors.New("invalid audit status")
)
