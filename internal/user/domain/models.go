// Package domain contains persistence models for the user service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ThemeMode string

const (
	ThemeDefault ThemeMode = "default"
	ThemeLight   ThemeMode = "light"
	ThemeDark    ThemeMode = "dark"
)

func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeDefault, ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

type Lang string

const (
	LangEN Lang = "en"
	LangVI Lang = "vi"
)

func (l Lang) Valid() bool {
	switch l {
	case LangEN, LangVI:
		return true
	default:
		return false
	}
}

// User is an account that can authenticate against the API.
type User struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Email          string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	FullName       string       `gorm:"type:text;column:full_name" json:"full_name"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool         `gorm:"not null;default:false" json:"is_superuser"`
	HashedPassword string       `gorm:"type:text;not null" json:"-"`
	ThemeMode      ThemeMode    `gorm:"type:text;not null;default:'default';column:themes_mode" json:"themes_mode"`
	Lang           Lang         `gorm:"type:text;not null;default:'en'" json:"lang"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// PublicProfile is the user shape exposed over the API.
type PublicProfile struct {
	ID          snowflake.ID `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"full_name"`
	IsActive    bool         `json:"is_active"`
	IsSuperuser bool         `json:"is_superuser"`
	ThemeMode   ThemeMode    `json:"themes_mode"`
	Lang        Lang         `json:"lang"`
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		ThemeMode:   u.ThemeMode,
		Lang:        u.Lang,
	}
}
