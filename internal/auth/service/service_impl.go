package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orghub/orghub/internal/auth/domain"
	"github.com/orghub/orghub/internal/auth/password"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/config"
	"github.com/orghub/orghub/internal/tokenstore"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"go.uber.org/zap"
)

const resetTokenTTL = 24 * time.Hour

type Service struct {
	log           *zap.Logger
	users         userdomain.Repository
	store         tokenstore.Store
	clock         clock.Clock
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

func New(log *zap.Logger, cfg config.Config, users userdomain.Repository, store tokenstore.Store, clk clock.Clock) domain.Service {
	return &Service{
		log:           log.Named("auth.service"),
		users:         users,
		store:         store,
		clock:         clk,
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		issuer:        cfg.JWTIssuer,
	}
}

// Authenticate resolves email+password to a user. Unknown email and wrong
// password fail identically so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*userdomain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(plaintext, user.HashedPassword) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *Service) IssueTokenPair(ctx context.Context, user *userdomain.User) (*domain.TokenPair, error) {
	access, err := s.issue(ctx, user.ID, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(ctx, user.ID, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// issue mints a signed token and mirrors it in the credential store. The
// expiry is computed once and used for both the claim and the mirror TTL.
func (s *Service) issue(ctx context.Context, subject snowflake.ID, tokenType string) (string, error) {
	secret, ttl, namespace := s.tokenParams(tokenType)

	now := s.clock.Now()
	expiresAt := now.Add(ttl)
	claims := &domain.Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, namespace, subject.String(), signed, expiresAt.Sub(now)); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *Service) VerifyAccess(ctx context.Context, rawToken string) (*userdomain.User, error) {
	claims, err := s.verify(ctx, rawToken, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return s.activeUser(ctx, claims.Subject)
}

func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (*domain.TokenPair, error) {
	claims, err := s.verify(ctx, rawRefreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	// The old refresh token is single-use.
	if err := s.store.Delete(ctx, tokenstore.NamespaceRefresh, claims.Subject, rawRefreshToken); err != nil {
		s.log.Warn("failed to delete rotated refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout resolves the bearer token to its subject and revokes every live
// token for that subject, access and refresh alike.
func (s *Service) Logout(ctx context.Context, rawAccessToken string) error {
	claims, err := s.parse(rawAccessToken, s.accessSecret)
	if err != nil {
		return err
	}
	_, err = s.RevokeAll(ctx, claims.Subject)
	return err
}

func (s *Service) RevokeAll(ctx context.Context, subject string) (int, error) {
	revoked, err := s.store.RevokeSubject(ctx, subject)
	if err != nil {
		return revoked, err
	}
	s.log.Info("tokens revoked", zap.String("subject", subject), zap.Int("count", revoked))
	return revoked, nil
}

// IssueResetToken mints a short-lived password reset token. Reset tokens
// are not mirrored in the credential store.
func (s *Service) IssueResetToken(email string) (string, error) {
	now := s.clock.Now()
	claims := &domain.Claims{
		TokenType: domain.TokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(strings.TrimSpace(email)),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// VerifyResetToken returns the email a reset token was issued for.
func (s *Service) VerifyResetToken(rawToken string) (string, error) {
	claims, err := s.parse(rawToken, s.accessSecret)
	if err != nil {
		return "", err
	}
	if claims.TokenType != domain.TokenTypeReset {
		return "", domain.ErrWrongTokenType
	}
	return claims.Subject, nil
}

// verify checks the signature, expiry, type discriminator, and requires a
// live mirror entry so revocation takes effect before natural expiry.
func (s *Service) verify(ctx context.Context, rawToken, tokenType string) (*domain.Claims, error) {
	secret, _, namespace := s.tokenParams(tokenType)

	claims, err := s.parse(rawToken, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, domain.ErrWrongTokenType
	}

	live, err := s.store.Exists(ctx, namespace, claims.Subject, rawToken)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, domain.ErrTokenRevoked
	}
	return claims, nil
}

func (s *Service) parse(rawToken string, secret []byte) (*domain.Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, domain.ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(rawToken, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*domain.Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) activeUser(ctx context.Context, subject string) (*userdomain.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, snowflake.ID(id))
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *Service) tokenParams(tokenType string) ([]byte, time.Duration, string) {
	if tokenType == domain.TokenTypeRefresh {
		return s.refreshSecret, s.refreshTTL, tokenstore.NamespaceRefresh
	}
	return s.accessSecret, s.accessTTL, tokenstore.NamespaceAccess
}
