package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/auth/password"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/user/domain"
	"github.com/orghub/orghub/internal/user/repository"
	"github.com/orghub/orghub/pkg/db"
	"github.com/orghub/orghub/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	return NewService(zap.NewNop(), repository.NewRepository(dbConn), node, clk)
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{
		Email:    "  Nguyen.Van@Example.COM ",
		Password: "changeme123",
		FullName: "Nguyen Van A",
	})
	require.NoError(t, err)
	require.Equal(t, "nguyen.van@example.com", user.Email)
	require.True(t, user.IsActive)
	require.False(t, user.IsSuperuser)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "changeme123"})
	require.NoError(t, err)

	// Case differs, the stored email does not.
	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "A@Example.com", Password: "changeme123"})
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email:    "a@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestCreateRejectsInvalidEmail(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email:    "not-an-email",
		Password: "changeme123",
	})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdatePasswordRequiresCurrent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "original-pass"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, domain.UpdatePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "brand-new-pass",
	})
	require.ErrorIs(t, err, domain.ErrWrongPassword)

	err = svc.UpdatePassword(ctx, user.ID, domain.UpdatePasswordRequest{
		CurrentPassword: "original-pass",
		NewPassword:     "original-pass",
	})
	require.ErrorIs(t, err, domain.ErrSamePassword)

	err = svc.UpdatePassword(ctx, user.ID, domain.UpdatePasswordRequest{
		CurrentPassword: "original-pass",
		NewPassword:     "brand-new-pass",
	})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, password.Verify("brand-new-pass", stored.HashedPassword))
}

func TestUpdateThemesValidatesEnums(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", Password: "changeme123"})
	require.NoError(t, err)

	bad := domain.ThemeMode("sepia")
	_, err = svc.UpdateThemes(ctx, user.ID, domain.UpdateThemesRequest{ThemeMode: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidTheme)

	dark := domain.ThemeDark
	vi := domain.LangVI
	updated, err := svc.UpdateThemes(ctx, user.ID, domain.UpdateThemesRequest{ThemeMode: &dark, Lang: &vi})
	require.NoError(t, err)
	require.Equal(t, domain.ThemeDark, updated.ThemeMode)
	require.Equal(t, domain.LangVI, updated.Lang)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "first@example.com", Password: "changeme123"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateUserRequest{Email: "second@example.com", Password: "changeme123"})
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = svc.Update(ctx, second.ID, domain.UpdateUserRequest{Email: &taken})
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestListPagesUsers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Create(ctx, domain.CreateUserRequest{Email: email, Password: "changeme123"})
		require.NoError(t, err)
	}

	users, total, err := svc.List(ctx, pagination.Pagination{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, users, 1)
}
