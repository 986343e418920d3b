package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/partner/domain"
	"github.com/orghub/orghub/internal/partner/repository"
	"github.com/orghub/orghub/pkg/db"
	"github.com/orghub/orghub/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc   domain.Service
	actor snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Partner{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   NewService(zap.NewNop(), repository.NewRepository(dbConn), node, clk),
		actor: node.Generate(),
	}
}

func TestCreateDefaultsStatusToActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	partner, err := f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{
		Name:         "Hanoi Chamber of Commerce",
		ContactEmail: "office@hcc.example",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, partner.Status)
	require.Equal(t, f.actor, partner.CreatedBy)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{Name: "Acme"})
	require.ErrorIs(t, err, domain.ErrNameExists)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreatePartnerRequest{
		Name:   "Acme",
		Status: "archived",
	})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	partner, err := f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{
		Name:        "Acme",
		Description: "original",
	})
	require.NoError(t, err)

	status := domain.StatusInactive
	updated, err := f.svc.Update(ctx, partner.ID, domain.UpdatePartnerRequest{
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, updated.Status)
	require.Equal(t, "Acme", updated.Name)
	require.Equal(t, "original", updated.Description)
}

func TestDeleteMissingPartner(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), snowflake.ID(42))
	require.ErrorIs(t, err, domain.ErrPartnerNotFound)
}

func TestListFiltersAcrossBothEmailColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{
		Name:         "Org Contact",
		ContactEmail: "shared@corp.example",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{
		Name:                 "Personal Contact",
		ContactPersonalEmail: "shared@corp.example",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{
		Name:         "Unrelated",
		ContactEmail: "other@else.example",
	})
	require.NoError(t, err)

	res, err := f.svc.List(ctx, domain.ListFilter{Email: "shared@corp"})
	require.NoError(t, err)
	require.Len(t, res.Partners, 2)
	require.EqualValues(t, 2, res.TotalItems)
}

func TestListTotalIgnoresPageWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B1", "C1", "D1"} {
		_, err := f.svc.Create(ctx, f.actor, domain.CreatePartnerRequest{Name: name})
		require.NoError(t, err)
	}

	res, err := f.svc.List(ctx, domain.ListFilter{
		Pagination: pagination.Pagination{Page: 2, PageSize: 3},
	})
	require.NoError(t, err)
	require.Len(t, res.Partners, 1)
	require.EqualValues(t, 4, res.TotalItems)
	require.Equal(t, 2, res.TotalPages)
}
