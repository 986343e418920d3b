// Package domain contains persistence models for the unit service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/orghub/orghub/internal/user/domain"
)

// Unit is an organizational team. Membership lives in UnitMember rows;
// a unit knows its members only through queries, never a live collection.
type Unit struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_units_name" json:"name"`
	NameSearch  string       `gorm:"type:text;not null;index;column:name_search" json:"-"`
	Description string       `gorm:"type:text" json:"description"`
	CreatedBy   snowflake.ID `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Unit) TableName() string { return "units" }

// UnitMember binds a user to a unit. At most one row per (unit, user);
// at most one row per unit carries the leader flag.
type UnitMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UnitID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_unit_members,priority:1" json:"unit_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_unit_members,priority:2" json:"user_id"`
	IsLeader  bool         `gorm:"not null;default:false" json:"is_leader"`
	UpdatedBy snowflake.ID `gorm:"not null" json:"updated_by"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UnitMember) TableName() string { return "unit_members" }

// UnitRead is a filter result row enriched with computed fields.
type UnitRead struct {
	ID          snowflake.ID              `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	CreatedAt   time.Time                 `json:"created_at"`
	MemberCount int                       `json:"member_count"`
	Leader      *userdomain.PublicProfile `json:"leader,omitempty"`
}
