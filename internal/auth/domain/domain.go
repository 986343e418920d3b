// Package domain defines the auth service contracts.
package domain

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	userdomain "github.com/orghub/orghub/internal/user/domain"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrWrongTokenType     = errors.New("wrong token type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeReset   = "reset"
)

// Claims carries the token type discriminator so a refresh token can
// never be replayed as an access token.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Service interface {
	Authenticate(ctx context.Context, email, plaintext string) (*userdomain.User, error)
	IssueTokenPair(ctx context.Context, user *userdomain.User) (*TokenPair, error)
	VerifyAccess(ctx context.Context, rawToken string) (*userdomain.User, error)
	Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, rawAccessToken string) error
	RevokeAll(ctx context.Context, subject string) (int, error)
	IssueResetToken(email string) (string, error)
	VerifyResetToken(rawToken string) (string, error)
}
