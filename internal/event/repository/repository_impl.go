package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/event/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// Provide constructs the event repository.
func Provide(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Event{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ExchangeLevel != "" {
		query = query.Where("exchange_level = ?", filter.ExchangeLevel)
	}
	if filter.StartDate != nil {
		query = query.Where("start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("start_time <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []domain.Event
	err := query.
		Scopes(filter.Apply()).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
