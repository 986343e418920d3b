package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/partnerevent/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// Provide constructs the partner event repository.
func Provide(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *domain.PartnerEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.PartnerEvent, error) {
	var event domain.PartnerEvent
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

func (r *repository) Update(ctx context.Context, event *domain.PartnerEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.PartnerEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.PartnerEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.PartnerEvent{})

	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}
	if filter.Name != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var events []domain.PartnerEvent
	err := query.
		Scopes(filter.Apply()).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *repository) CreateSchedule(ctx context.Context, schedule *domain.EventSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *repository) FindSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) (*domain.EventSchedule, error) {
	var schedule domain.EventSchedule
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", scheduleID, eventID).
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) ListSchedules(ctx context.Context, eventID snowflake.ID) ([]domain.EventSchedule, error) {
	var schedules []domain.EventSchedule
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("time ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *repository) UpdateSchedule(ctx context.Context, schedule *domain.EventSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *repository) DeleteSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", scheduleID, eventID).
		Delete(&domain.EventSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *repository) DeleteSchedules(ctx context.Context, eventID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&domain.EventSchedule{}).Error
}

func (r *repository) CreateMember(ctx context.Context, member *domain.DelegationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) FindMember(ctx context.Context, eventID, memberID snowflake.ID) (*domain.DelegationMember, error) {
	var member domain.DelegationMember
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", memberID, eventID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, eventID snowflake.ID) ([]domain.DelegationMember, error) {
	var members []domain.DelegationMember
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) UpdateMember(ctx context.Context, member *domain.DelegationMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) DeleteMember(ctx context.Context, eventID, memberID snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", memberID, eventID).
		Delete(&domain.DelegationMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repository) DeleteMembers(ctx context.Context, eventID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&domain.DelegationMember{}).Error
}
