package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/orghub/orghub/internal/auth/domain"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/config"
	"github.com/orghub/orghub/internal/tokenstore"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	userrepository "github.com/orghub/orghub/internal/user/repository"
	userservice "github.com/orghub/orghub/internal/user/service"
	"github.com/orghub/orghub/pkg/db"
	"go.uber.org/zap"
)

type fixture struct {
	auth  authdomain.Service
	users userdomain.Service
	clock *clock.FakeClock
	store *tokenstore.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&userdomain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := tokenstore.NewMemoryStore(clk)
	repo := userrepository.NewRepository(dbConn)

	cfg := config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   30 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		JWTIssuer:        "orghub-test",
	}

	return &fixture{
		auth:  New(zap.NewNop(), cfg, repo, store, clk),
		users: userservice.NewService(zap.NewNop(), repo, node, clk),
		clock: clk,
		store: store,
	}
}

func (f *fixture) createUser(t *testing.T, email string) *userdomain.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), userdomain.CreateUserRequest{
		Email:    email,
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestAuthenticateWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice@example.com")

	_, err := f.auth.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmailIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice@example.com")

	_, wrongPassword := f.auth.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	_, unknownEmail := f.auth.Authenticate(context.Background(), "nobody@example.com", "correct-password")
	if wrongPassword != unknownEmail {
		t.Fatalf("expected identical failures, got %v and %v", wrongPassword, unknownEmail)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	inactive := false
	if _, err := f.users.Update(context.Background(), user.ID, userdomain.UpdateUserRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	_, err := f.auth.Authenticate(context.Background(), "alice@example.com", "correct-password")
	if err != authdomain.ErrInactiveUser {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestVerifyAccessRoundTrip(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	got, err := f.auth.VerifyAccess(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("failed to verify access token: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	if _, err := f.auth.VerifyAccess(context.Background(), pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to fail access verification")
	}
}

func TestRevokedTokenFailsBeforeExpiry(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}
	if _, err := f.auth.RevokeAll(context.Background(), user.ID.String()); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}

	if _, err := f.auth.VerifyAccess(context.Background(), pair.AccessToken); err != authdomain.ErrTokenRevoked {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestExpiredTokenFailsWithoutRevocation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	f.clock.Advance(31 * time.Minute)
	if _, err := f.auth.VerifyAccess(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestRefreshRotatesOldToken(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	// keep issued-at distinct so the new pair differs from the old one
	f.clock.Advance(time.Second)

	fresh, err := f.auth.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if fresh.AccessToken == pair.AccessToken {
		t.Fatal("expected a new access token")
	}

	if _, err := f.auth.Refresh(context.Background(), pair.RefreshToken); err != authdomain.ErrTokenRevoked {
		t.Fatalf("expected rotated refresh token to be dead, got %v", err)
	}
}

func TestLogoutRevokesAllSubjectTokens(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice@example.com")

	pair, err := f.auth.IssueTokenPair(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	if err := f.auth.Logout(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	if _, err := f.auth.VerifyAccess(context.Background(), pair.AccessToken); err != authdomain.ErrTokenRevoked {
		t.Fatalf("expected access token revoked, got %v", err)
	}
	if _, err := f.auth.Refresh(context.Background(), pair.RefreshToken); err != authdomain.ErrTokenRevoked {
		t.Fatalf("expected refresh token revoked, got %v", err)
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	f := newFixture(t)

	token, err := f.auth.IssueResetToken("Alice@Example.com")
	if err != nil {
		t.Fatalf("failed to issue reset token: %v", err)
	}
	email, err := f.auth.VerifyResetToken(token)
	if err != nil {
		t.Fatalf("failed to verify reset token: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", email)
	}
}
