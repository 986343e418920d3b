package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, actor snowflake.ID, req CreateUnitRequest) (*Unit, error)
	Update(ctx context.Context, actor snowflake.ID, unitID snowflake.ID, req UpdateUnitRequest) error
	Delete(ctx context.Context, actor snowflake.ID, unitID snowflake.ID) error
	Filter(ctx context.Context, req FilterRequest) ([]UnitRead, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, unit *Unit) error
	FindByID(ctx context.Context, id snowflake.ID) (*Unit, error)
	Update(ctx context.Context, unit *Unit) error
	Delete(ctx context.Context, id snowflake.ID) error
	InsertMembers(ctx context.Context, members []UnitMember) error
	ListMembers(ctx context.Context, unitID snowflake.ID) ([]UnitMember, error)
	DeleteMembers(ctx context.Context, unitID snowflake.ID) error
	SetLeader(ctx context.Context, unitID, leaderID, updatedBy snowflake.ID) error
	Filter(ctx context.Context, req FilterRequest) ([]UnitRead, error)
}

type CreateUnitRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	LeaderID    snowflake.ID   `json:"leader_id" binding:"required"`
	MemberIDs   []snowflake.ID `json:"member_ids"`
}

type UpdateUnitRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	UserIDs     []snowflake.ID `json:"user_ids"`
	LeaderID    *snowflake.ID  `json:"leader_id"`
}

type FilterRequest struct {
	pagination.Pagination
	Name      string         `json:"name"`
	CreatedBy []snowflake.ID `json:"created_by"`
	LeaderID  []snowflake.ID `json:"leader_id"`
}
