package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/observability/metrics"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    auditdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    auditdomain.Repository
	metrics *metrics.Metrics
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("audit.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, actor snowflake.ID, status auditdomain.LogResult, content string) error {
	if status != auditdomain.ResultSuccess && status != auditdomain.ResultFailed {
		return auditdomain.ErrInvalidStatus
	}

	handle := tx
	if handle == nil {
		handle = s.db
	}

	entry := &auditdomain.AuditLog{
		ID:        s.genID.Generate(),
		CreatedBy: actor,
		Status:    status,
		Content:   strings.TrimSpace(content),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, handle, entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("status", string(status)), zap.Error(err))
		return err
	}
	s.metrics.ObserveAuditEntry(string(status))
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) (auditdomain.ListResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListResponse{}, auditdomain.ErrInvalidTimeRange
	}
	req.Normalize()

	logs, total, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return auditdomain.ListResponse{}, err
	}
	return auditdomain.ListResponse{
		PageInfo:  pagination.BuildPageInfo(req.Pagination, total),
		AuditLogs: logs,
	}, nil
}
