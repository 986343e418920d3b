// Package seed bootstraps the first superuser so a fresh deployment
// can be administered without touching the database by hand.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/auth/password"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"gorm.io/gorm"
)

// EnsureSuperuser creates the bootstrap superuser when no account with
// the configured email exists. An existing account is promoted rather
// than duplicated.
func EnsureSuperuser(db *gorm.DB, email, plainPassword string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if plainPassword == "" {
		return errors.New("bootstrap admin password is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user userdomain.User
		err := tx.Where("lower(email) = ?", email).First(&user).Error
		if err == nil {
			if user.IsSuperuser && user.IsActive {
				return nil
			}
			return tx.Model(&user).
				Updates(map[string]any{"is_superuser": true, "is_active": true}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(plainPassword)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = userdomain.User{
			ID:             node.Generate(),
			Email:          email,
			FullName:       "Administrator",
			IsActive:       true,
			IsSuperuser:    true,
			HashedPassword: hashed,
			ThemeMode:      userdomain.ThemeDefault,
			Lang:           userdomain.LangVI,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.Create(&user).Error
	})
}
