package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/auth/password"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/user/domain"
	"github.com/orghub/orghub/pkg/db/pagination"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("user.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:             s.genID.Generate(),
		Email:          email,
		FullName:       strings.TrimSpace(req.FullName),
		IsActive:       active,
		IsSuperuser:    req.IsSuperuser,
		HashedPassword: hashed,
		ThemeMode:      domain.ThemeDefault,
		Lang:           domain.LangEN,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.Create(ctx, domain.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	return s.repo.FindByEmail(ctx, normalized)
}

func (s *service) List(ctx context.Context, page pagination.Pagination) ([]domain.User, int64, error) {
	page.Normalize()
	return s.repo.List(ctx, page)
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, domain.ErrInvalidEmail
		}
		if email != user.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrEmailExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateMe(ctx context.Context, id snowflake.ID, req domain.UpdateMeRequest) (*domain.User, error) {
	return s.Update(ctx, id, domain.UpdateUserRequest{
		Email:    req.Email,
		FullName: req.FullName,
	})
}

func (s *service) UpdatePassword(ctx context.Context, id snowflake.ID, req domain.UpdatePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(req.CurrentPassword, user.HashedPassword) {
		return domain.ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.ErrSamePassword
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, user)
}

func (s *service) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, user)
}

func (s *service) UpdateThemes(ctx context.Context, id snowflake.ID, req domain.UpdateThemesRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ThemeMode != nil {
		if !req.ThemeMode.Valid() {
			return nil, domain.ErrInvalidTheme
		}
		user.ThemeMode = *req.ThemeMode
	}
	if req.Lang != nil {
		if !req.Lang.Valid() {
			return nil, domain.ErrInvalidLang
		}
		user.Lang = *req.Lang
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func validatePassword(pw string) error {
	if len(strings.TrimSpace(pw)) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	return nil
}
