package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/partner/domain"
	"github.com/orghub/orghub/pkg/db"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("partner.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, actor snowflake.ID, req domain.CreatePartnerRequest) (*domain.Partner, error) {
	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	partner := &domain.Partner{
		ID:          s.genID.Generate(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),

		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		ContactAddress: strings.TrimSpace(req.ContactAddress),

		ContactPersonalName:  strings.TrimSpace(req.ContactPersonalName),
		ContactPersonalPhone: strings.TrimSpace(req.ContactPersonalPhone),
		ContactPersonalEmail: strings.TrimSpace(req.ContactPersonalEmail),

		Status:    status,
		CreatedBy: actor,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, partner); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameExists
		}
		return nil, err
	}
	return partner, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Partner, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdatePartnerRequest) (*domain.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		partner.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		partner.Description = strings.TrimSpace(*req.Description)
	}
	if req.ContactEmail != nil {
		partner.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		partner.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.ContactAddress != nil {
		partner.ContactAddress = strings.TrimSpace(*req.ContactAddress)
	}
	if req.ContactPersonalName != nil {
		partner.ContactPersonalName = strings.TrimSpace(*req.ContactPersonalName)
	}
	if req.ContactPersonalPhone != nil {
		partner.ContactPersonalPhone = strings.TrimSpace(*req.ContactPersonalPhone)
	}
	if req.ContactPersonalEmail != nil {
		partner.ContactPersonalEmail = strings.TrimSpace(*req.ContactPersonalEmail)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		partner.Status = *req.Status
	}

	if err := s.repo.Update(ctx, partner); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameExists
		}
		return nil, err
	}
	return partner, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	filter.Normalize()

	partners, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		PageInfo: pagination.BuildPageInfo(filter.Pagination, total),
		Partners: partners,
	}, nil
}
