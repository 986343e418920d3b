package repository

import (
	"context"

	"github.com/orghub/orghub/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]domain.AuditLog, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.AuditLog{})

	if req.Status != "" {
		stmt = stmt.Where("status = ?", req.Status)
	}
	if req.CreatedBy != nil {
		stmt = stmt.Where("created_by = ?", *req.CreatedBy)
	}
	if req.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", req.StartAt.UTC())
	}
	if req.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", req.EndAt.UTC())
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []domain.AuditLog
	err := stmt.
		Scopes(req.Apply()).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
