package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/event/domain"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

// NewService constructs the event service.
func NewService(
	log *zap.Logger,
	repo domain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:   log.Named("event.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, actor snowflake.ID, req domain.CreateEventRequest) (*domain.Event, error) {
	if req.StartTime.IsZero() {
		return nil, domain.ErrMissingStartTime
	}
	if req.Location == "" {
		return nil, domain.ErrMissingLocation
	}
	if req.ExchangeLevel == "" {
		req.ExchangeLevel = domain.LevelMedium
	}
	if !req.ExchangeLevel.Valid() {
		return nil, domain.ErrInvalidExchangeLevel
	}
	if req.Status == "" {
		req.Status = domain.StatusScheduled
	}
	if !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	event := &domain.Event{
		ID:               s.genID.Generate(),
		StartTime:        req.StartTime,
		Location:         req.Location,
		ExchangeLevel:    req.ExchangeLevel,
		RelatedDocuments: req.RelatedDocuments,
		AdditionalInfo:   req.AdditionalInfo,
		Status:           req.Status,
		CreatedBy:        actor,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("status", string(event.Status)),
	)
	return event, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		if req.StartTime.IsZero() {
			return nil, domain.ErrMissingStartTime
		}
		event.StartTime = *req.StartTime
	}
	if req.Location != nil {
		if *req.Location == "" {
			return nil, domain.ErrMissingLocation
		}
		event.Location = *req.Location
	}
	if req.ExchangeLevel != nil {
		if !req.ExchangeLevel.Valid() {
			return nil, domain.ErrInvalidExchangeLevel
		}
		event.ExchangeLevel = *req.ExchangeLevel
	}
	if req.RelatedDocuments != nil {
		event.RelatedDocuments = *req.RelatedDocuments
	}
	if req.AdditionalInfo != nil {
		event.AdditionalInfo = *req.AdditionalInfo
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		event.Status = *req.Status
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	if filter.ExchangeLevel != "" && !filter.ExchangeLevel.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidExchangeLevel
	}
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
