package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/recommendation/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// Provide constructs the recommendation repository.
func Provide(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rec *domain.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Update(ctx context.Context, rec *domain.Recommendation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Recommendation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Recommendation, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Recommendation{})

	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != nil {
		query = query.Where("target_id = ?", *filter.TargetID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []domain.Recommendation
	err := query.
		Scopes(filter.Apply()).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}
