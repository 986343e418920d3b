package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page pagination.Pagination) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id snowflake.ID) error
	ExistingIDs(ctx context.Context, ids []snowflake.ID) ([]snowflake.ID, error)
}
