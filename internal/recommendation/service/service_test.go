package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
	eventrepository "github.com/orghub/orghub/internal/event/repository"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	partnerrepository "github.com/orghub/orghub/internal/partner/repository"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	perepository "github.com/orghub/orghub/internal/partnerevent/repository"
	"github.com/orghub/orghub/internal/recommendation/domain"
	"github.com/orghub/orghub/internal/recommendation/repository"
	"github.com/orghub/orghub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	genID   *snowflake.Node
	clock   *clock.FakeClock
	event   snowflake.ID
	partner snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&eventdomain.Event{},
		&partnerdomain.Partner{},
		&pedomain.PartnerEvent{},
		&domain.Recommendation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		Log:           zap.NewNop(),
		GenID:         node,
		Clock:         clk,
		Repo:          repository.Provide(dbConn),
		Events:        eventrepository.Provide(dbConn),
		Partners:      partnerrepository.NewRepository(dbConn),
		PartnerEvents: perepository.Provide(dbConn),
	})

	f := &fixture{db: dbConn, svc: svc, genID: node, clock: clk}

	event := &eventdomain.Event{
		ID:            node.Generate(),
		StartTime:     clk.Now(),
		Location:      "Hanoi",
		ExchangeLevel: eventdomain.LevelMedium,
		Status:        eventdomain.StatusScheduled,
		CreatedBy:     node.Generate(),
		CreatedAt:     clk.Now(),
	}
	require.NoError(t, dbConn.Create(event).Error)
	f.event = event.ID

	partner := &partnerdomain.Partner{
		ID:        node.Generate(),
		Name:      "Acme",
		Status:    partnerdomain.StatusActive,
		CreatedBy: node.Generate(),
		CreatedAt: clk.Now(),
	}
	require.NoError(t, dbConn.Create(partner).Error)
	f.partner = partner.ID
	return f
}

func TestCreateValidatesTargetByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetEvent,
		TargetID:   f.event,
		Title:      "Follow up",
	})
	require.NoError(t, err)
	require.Equal(t, "active", rec.Status)
	require.Equal(t, "author@example.com", rec.CreatedBy)
	require.Nil(t, rec.ApprovedBy)

	// The partner id is a live row, but not under the event lookup.
	_, err = f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetEvent,
		TargetID:   f.partner,
		Title:      "Mismatched",
	})
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestCreateRejectsUnknownTargetType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "author@example.com", domain.CreateRequest{
		TargetType: "unit",
		TargetID:   f.event,
		Title:      "Nope",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTargetType)
}

func TestCreateAgainstPartnerTarget(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create(context.Background(), "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetPartner,
		TargetID:   f.partner,
		Title:      "Strengthen ties",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TargetPartner, rec.TargetType)
}

func TestApproveStampsApproverAndTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetEvent,
		TargetID:   f.event,
		Title:      "Follow up",
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	approved, err := f.svc.Approve(ctx, rec.ID, "chief@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, "chief@example.com", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	require.Equal(t, f.clock.Now(), approved.ApprovedAt.UTC())
}

func TestApproveTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetEvent,
		TargetID:   f.event,
		Title:      "Follow up",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, rec.ID, "chief@example.com")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, rec.ID, "chief@example.com")
	require.ErrorIs(t, err, domain.ErrAlreadyApproved)
}

func TestListFiltersByTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetEvent,
		TargetID:   f.event,
		Title:      "First",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "author@example.com", domain.CreateRequest{
		TargetType: domain.TargetPartner,
		TargetID:   f.partner,
		Title:      "Second",
	})
	require.NoError(t, err)

	res, err := f.svc.List(ctx, domain.ListFilter{TargetType: domain.TargetPartner})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	require.Equal(t, "Second", res.Recommendations[0].Title)

	res, err = f.svc.List(ctx, domain.ListFilter{TargetID: &f.event})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)
	require.Equal(t, "First", res.Recommendations[0].Title)
}

func TestDeleteMissingRecommendation(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), snowflake.ID(42))
	require.ErrorIs(t, err, domain.ErrNotFound)
}
