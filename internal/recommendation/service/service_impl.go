package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	"github.com/orghub/orghub/internal/recommendation/domain"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// lookupFunc reports whether the record a recommendation targets exists.
type lookupFunc func(ctx context.Context, id snowflake.ID) error

type Params struct {
	fx.In

	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	Events        eventdomain.Repository
	Partners      partnerdomain.Repository
	PartnerEvents pedomain.Repository
}

type service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	lookups map[domain.TargetType]lookupFunc
}

// NewService constructs the recommendation service. Target validation
// dispatches on a fixed table keyed by target type, one lookup per
// supported kind.
func NewService(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("recommendation.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		lookups: map[domain.TargetType]lookupFunc{
			domain.TargetEvent: func(ctx context.Context, id snowflake.ID) error {
				_, err := p.Events.FindByID(ctx, id)
				return err
			},
			domain.TargetPartner: func(ctx context.Context, id snowflake.ID) error {
				_, err := p.Partners.FindByID(ctx, id)
				return err
			},
			domain.TargetPartnerEvent: func(ctx context.Context, id snowflake.ID) error {
				_, err := p.PartnerEvents.FindByID(ctx, id)
				return err
			},
		},
	}
}

func (s *service) Create(ctx context.Context, creatorEmail string, req domain.CreateRequest) (*domain.Recommendation, error) {
	if req.Title == "" {
		return nil, domain.ErrMissingTitle
	}
	lookup, ok := s.lookups[req.TargetType]
	if !ok {
		return nil, domain.ErrInvalidTargetType
	}
	if err := lookup(ctx, req.TargetID); err != nil {
		return nil, domain.ErrTargetNotFound
	}
	if req.Status == "" {
		req.Status = "active"
	}

	rec := &domain.Recommendation{
		ID:         s.genID.Generate(),
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		CreatedBy:  creatorEmail,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info("recommendation created",
		zap.String("recommendation_id", rec.ID.String()),
		zap.String("target_type", string(rec.TargetType)),
	)
	return rec, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Recommendation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Recommendation, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, domain.ErrMissingTitle
		}
		rec.Title = *req.Title
	}
	if req.Content != nil {
		rec.Content = *req.Content
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResponse, error) {
	if filter.TargetType != "" && !filter.TargetType.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidTargetType
	}
	filter.Normalize()

	recs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		PageInfo:        pagination.BuildPageInfo(filter.Pagination, total),
		Recommendations: recs,
	}, nil
}

// Approve marks the recommendation approved and records who signed off
// and when. Approving twice is rejected.
func (s *service) Approve(ctx context.Context, id snowflake.ID, approverEmail string) (*domain.Recommendation, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.StatusApproved {
		return nil, domain.ErrAlreadyApproved
	}

	now := s.clock.Now()
	rec.Status = domain.StatusApproved
	rec.ApprovedBy = &approverEmail
	rec.ApprovedAt = &now

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info("recommendation approved",
		zap.String("recommendation_id", rec.ID.String()),
		zap.String("approved_by", approverEmail),
	)
	return rec, nil
}
