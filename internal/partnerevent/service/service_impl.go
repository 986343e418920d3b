package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	"github.com/orghub/orghub/internal/partnerevent/domain"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Partners partnerdomain.Repository
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	partners partnerdomain.Repository
}

// NewService constructs the partner event service.
func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("partnerevent.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		partners: p.Partners,
	}
}

func (s *service) Create(ctx context.Context, actor snowflake.ID, req domain.CreateEventRequest) (*domain.PartnerEvent, error) {
	if req.Name == "" {
		return nil, domain.ErrMissingName
	}
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return nil, domain.ErrInvalidTimeRange
	}
	if _, err := s.partners.FindByID(ctx, req.PartnerID); err != nil {
		if errors.Is(err, partnerdomain.ErrPartnerNotFound) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, err
	}
	if req.Status == "" {
		req.Status = "active"
	}

	event := &domain.PartnerEvent{
		ID:          s.genID.Generate(),
		PartnerID:   req.PartnerID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Status:      req.Status,
		CreatedBy:   actor,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("partner event created",
		zap.String("event_id", event.ID.String()),
		zap.String("partner_id", event.PartnerID.String()),
	)
	return event, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	schedules, err := s.repo.ListSchedules(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EventDetail{
		PartnerEvent: *event,
		Schedules:    schedules,
		Members:      members,
	}, nil
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateEventRequest) (*domain.PartnerEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domain.ErrMissingName
		}
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if event.EndTime != nil && event.EndTime.Before(event.StartTime) {
		return nil, domain.ErrInvalidTimeRange
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event together with its schedules and delegation
// members in a single transaction.
func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteSchedules(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteMembers(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResponse, error) {
	filter.Normalize()

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		PageInfo: pagination.BuildPageInfo(filter.Pagination, total),
		Events:   events,
	}, nil
}

func (s *service) AddSchedule(ctx context.Context, eventID snowflake.ID, req domain.CreateScheduleRequest) (*domain.EventSchedule, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = "active"
	}

	schedule := &domain.EventSchedule{
		ID:         s.genID.Generate(),
		EventID:    eventID,
		Time:       req.Time,
		Location:   req.Location,
		Detail:     req.Detail,
		Attachment: req.Attachment,
		Status:     req.Status,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *service) UpdateSchedule(ctx context.Context, eventID, scheduleID snowflake.ID, req domain.UpdateScheduleRequest) (*domain.EventSchedule, error) {
	schedule, err := s.repo.FindSchedule(ctx, eventID, scheduleID)
	if err != nil {
		return nil, err
	}

	if req.Time != nil {
		schedule.Time = *req.Time
	}
	if req.Location != nil {
		schedule.Location = *req.Location
	}
	if req.Detail != nil {
		schedule.Detail = *req.Detail
	}
	if req.Attachment != nil {
		schedule.Attachment = req.Attachment
	}
	if req.Status != nil {
		schedule.Status = *req.Status
	}

	if err := s.repo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *service) RemoveSchedule(ctx context.Context, eventID, scheduleID snowflake.ID) error {
	return s.repo.DeleteSchedule(ctx, eventID, scheduleID)
}

func (s *service) AddMember(ctx context.Context, eventID snowflake.ID, req domain.CreateMemberRequest) (*domain.DelegationMember, error) {
	if req.FullName == "" {
		return nil, domain.ErrMissingFullName
	}
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = "active"
	}

	member := &domain.DelegationMember{
		ID:               s.genID.Generate(),
		EventID:          eventID,
		FullName:         req.FullName,
		Position:         req.Position,
		Phone:            req.Phone,
		Email:            req.Email,
		IsRepresentative: req.IsRepresentative,
		Status:           req.Status,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) UpdateMember(ctx context.Context, eventID, memberID snowflake.ID, req domain.UpdateMemberRequest) (*domain.DelegationMember, error) {
	member, err := s.repo.FindMember(ctx, eventID, memberID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, domain.ErrMissingFullName
		}
		member.FullName = *req.FullName
	}
	if req.Position != nil {
		member.Position = *req.Position
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.IsRepresentative != nil {
		member.IsRepresentative = *req.IsRepresentative
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) RemoveMember(ctx context.Context, eventID, memberID snowflake.ID) error {
	return s.repo.DeleteMember(ctx, eventID, memberID)
}
