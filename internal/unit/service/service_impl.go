package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/i18n"
	"github.com/orghub/orghub/internal/unit/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"github.com/orghub/orghub/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minNameLength = 3

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Users userdomain.Repository
	Audit auditdomain.Service
	TR    *i18n.Translator
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	users userdomain.Repository
	audit auditdomain.Service
	tr    *i18n.Translator
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("unit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		users: p.Users,
		audit: p.Audit,
		tr:    p.TR,
	}
}

// Create validates the leader and every member reference, then writes the
// unit, its membership rows, and a success audit entry in one transaction.
// On failure the transaction rolls back and a separate failure entry is
// written on the base connection so it survives the rollback.
func (s *Service) Create(ctx context.Context, actor snowflake.ID, req domain.CreateUnitRequest) (*domain.Unit, error) {
	unit, err := s.create(ctx, actor, req)
	if err != nil {
		s.recordFailure(ctx, actor, s.tr.Defaultf("unit.create_failed", err))
		return nil, err
	}
	return unit, nil
}

func (s *Service) create(ctx context.Context, actor snowflake.ID, req domain.CreateUnitRequest) (*domain.Unit, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < minNameLength {
		return nil, domain.ErrInvalidName
	}

	if _, err := s.users.FindByID(ctx, req.LeaderID); err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, &domain.MissingUsersError{IDs: []snowflake.ID{req.LeaderID}}
		}
		return nil, err
	}
	if missing, err := s.missingUsers(ctx, req.MemberIDs); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, &domain.MissingUsersError{IDs: missing}
	}

	now := s.clock.Now()
	unit := &domain.Unit{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   actor,
		CreatedAt:   now,
	}

	members := []domain.UnitMember{{
		ID:        s.genID.Generate(),
		UnitID:    unit.ID,
		UserID:    req.LeaderID,
		IsLeader:  true,
		UpdatedBy: actor,
		UpdatedAt: now,
	}}
	for _, memberID := range dedupe(req.MemberIDs) {
		if memberID == req.LeaderID {
			continue
		}
		members = append(members, domain.UnitMember{
			ID:        s.genID.Generate(),
			UnitID:    unit.ID,
			UserID:    memberID,
			UpdatedBy: actor,
			UpdatedAt: now,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, unit); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrUnitNameExists
			}
			return err
		}
		if err := repo.InsertMembers(ctx, members); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, actor, auditdomain.ResultSuccess, s.tr.Default("unit.created"))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("unit created",
		zap.String("unit_id", unit.ID.String()),
		zap.Int("members", len(members)),
	)
	return unit, nil
}

// Update applies name/description changes, and either replaces the whole
// membership list or flips the leader flag to an existing member.
func (s *Service) Update(ctx context.Context, actor snowflake.ID, unitID snowflake.ID, req domain.UpdateUnitRequest) error {
	unit, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if len(name) < minNameLength {
				return domain.ErrInvalidName
			}
			unit.Name = name
		}
		if req.Description != nil {
			unit.Description = strings.TrimSpace(*req.Description)
		}
		if err := repo.Update(ctx, unit); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrUnitNameExists
			}
			return err
		}

		switch {
		case req.UserIDs != nil:
			if err := repo.DeleteMembers(ctx, unitID); err != nil {
				return err
			}

			now := s.clock.Now()
			members := make([]domain.UnitMember, 0, len(req.UserIDs))
			for _, userID := range dedupe(req.UserIDs) {
				members = append(members, domain.UnitMember{
					ID:        s.genID.Generate(),
					UnitID:    unitID,
					UserID:    userID,
					IsLeader:  req.LeaderID != nil && *req.LeaderID == userID,
					UpdatedBy: actor,
					UpdatedAt: now,
				})
			}
			return repo.InsertMembers(ctx, members)

		case req.LeaderID != nil:
			members, err := repo.ListMembers(ctx, unitID)
			if err != nil {
				return err
			}
			if !containsMember(members, *req.LeaderID) {
				return domain.ErrLeaderNotMember
			}
			return repo.SetLeader(ctx, unitID, *req.LeaderID, actor)
		}
		return nil
	})
}

// Delete removes the membership rows and the unit. A foreign key violation
// leaves the unit intact and surfaces as a conflict. Every outcome writes
// an audit entry, including the not-found case.
func (s *Service) Delete(ctx context.Context, actor snowflake.ID, unitID snowflake.ID) error {
	if _, err := s.repo.FindByID(ctx, unitID); err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			s.recordFailure(ctx, actor, s.tr.Defaultf("unit.delete_not_found", unitID))
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteMembers(ctx, unitID); err != nil {
			return err
		}
		return repo.Delete(ctx, unitID)
	})
	if err != nil {
		if db.IsForeignKeyViolationErr(err) {
			s.recordFailure(ctx, actor, s.tr.Defaultf("unit.delete_referenced", unitID))
			return domain.ErrUnitReferenced
		}
		s.recordFailure(ctx, actor, s.tr.Defaultf("unit.delete_db_error", unitID))
		return err
	}

	if err := s.audit.Record(ctx, nil, actor, auditdomain.ResultSuccess, s.tr.Defaultf("unit.deleted", unitID)); err != nil {
		s.log.Warn("failed to record unit delete", zap.Error(err))
	}
	return nil
}

func (s *Service) Filter(ctx context.Context, req domain.FilterRequest) ([]domain.UnitRead, error) {
	req.Normalize()
	return s.repo.Filter(ctx, req)
}

func (s *Service) missingUsers(ctx context.Context, ids []snowflake.ID) ([]snowflake.ID, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	existing, err := s.users.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[snowflake.ID]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	var missing []snowflake.ID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *Service) recordFailure(ctx context.Context, actor snowflake.ID, content string) {
	if err := s.audit.Record(ctx, nil, actor, auditdomain.ResultFailed, content); err != nil {
		s.log.Warn("failed to record audit failure", zap.Error(err))
	}
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsMember(members []domain.UnitMember, userID snowflake.ID) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
