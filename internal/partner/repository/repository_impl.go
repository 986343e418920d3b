package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/partner/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, partner *domain.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (r *repository) Update(ctx context.Context, partner *domain.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Partner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPartnerNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Partner, int64, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Partner{})

	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("lower(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		pattern := "%" + strings.ToLower(email) + "%"
		stmt = stmt.Where("lower(contact_email) LIKE ? OR lower(contact_personal_email) LIKE ?", pattern, pattern)
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		pattern := "%" + phone + "%"
		stmt = stmt.Where("contact_phone LIKE ? OR contact_personal_phone LIKE ?", pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var partners []domain.Partner
	err := stmt.
		Scopes(filter.Apply()).
		Order("created_at ASC").
		Find(&partners).Error
	if err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}
