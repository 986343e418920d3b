package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/clock"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	partnerrepository "github.com/orghub/orghub/internal/partner/repository"
	"github.com/orghub/orghub/internal/partnerevent/domain"
	"github.com/orghub/orghub/internal/partnerevent/repository"
	"github.com/orghub/orghub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	genID   *snowflake.Node
	clock   *clock.FakeClock
	actor   snowflake.ID
	partner snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&partnerdomain.Partner{},
		&domain.PartnerEvent{},
		&domain.EventSchedule{},
		&domain.DelegationMember{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     repository.Provide(dbConn),
		Partners: partnerrepository.NewRepository(dbConn),
	})

	f := &fixture{
		db:    dbConn,
		svc:   svc,
		genID: node,
		clock: clk,
		actor: node.Generate(),
	}

	partner := &partnerdomain.Partner{
		ID:        node.Generate(),
		Name:      "Acme",
		Status:    partnerdomain.StatusActive,
		CreatedBy: f.actor,
		CreatedAt: clk.Now(),
	}
	require.NoError(t, dbConn.Create(partner).Error)
	f.partner = partner.ID
	return f
}

func (f *fixture) createEvent(t *testing.T) *domain.PartnerEvent {
	t.Helper()
	event, err := f.svc.Create(context.Background(), f.actor, domain.CreateEventRequest{
		PartnerID: f.partner,
		Name:      "Trade Mission",
		StartTime: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return event
}

func TestCreateRejectsUnknownPartner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateEventRequest{
		PartnerID: snowflake.ID(42),
		Name:      "Trade Mission",
		StartTime: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, domain.ErrPartnerNotFound)
}

func TestCreateRejectsInvertedTimeRange(t *testing.T) {
	f := newFixture(t)

	end := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateEventRequest{
		PartnerID: f.partner,
		Name:      "Trade Mission",
		StartTime: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   &end,
	})
	require.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestGetIncludesNestedCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := f.createEvent(t)

	_, err := f.svc.AddSchedule(ctx, event.ID, domain.CreateScheduleRequest{
		Time:   time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		Detail: "Opening session",
		Attachment: datatypes.JSONMap{
			"bucket": "attachments",
			"key":    "agenda.pdf",
		},
	})
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, event.ID, domain.CreateMemberRequest{
		FullName:         "Nguyen Van A",
		Position:         "Director",
		IsRepresentative: true,
	})
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, detail.Schedules, 1)
	require.Len(t, detail.Members, 1)
	require.Equal(t, "agenda.pdf", detail.Schedules[0].Attachment["key"])
	require.True(t, detail.Members[0].IsRepresentative)
}

func TestScheduleRequiresExistingEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddSchedule(context.Background(), snowflake.ID(42), domain.CreateScheduleRequest{
		Time: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestScheduleScopedToItsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createEvent(t)
	second := f.createEvent(t)

	schedule, err := f.svc.AddSchedule(ctx, first.ID, domain.CreateScheduleRequest{
		Time: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A schedule id only resolves under its own event.
	err = f.svc.RemoveSchedule(ctx, second.ID, schedule.ID)
	require.ErrorIs(t, err, domain.ErrScheduleNotFound)
	require.NoError(t, f.svc.RemoveSchedule(ctx, first.ID, schedule.ID))
}

func TestUpdateMemberFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := f.createEvent(t)
	member, err := f.svc.AddMember(ctx, event.ID, domain.CreateMemberRequest{
		FullName: "Nguyen Van A",
	})
	require.NoError(t, err)
	require.False(t, member.IsRepresentative)

	rep := true
	updated, err := f.svc.UpdateMember(ctx, event.ID, member.ID, domain.UpdateMemberRequest{
		IsRepresentative: &rep,
	})
	require.NoError(t, err)
	require.True(t, updated.IsRepresentative)
	require.Equal(t, "Nguyen Van A", updated.FullName)
}

func TestDeleteRemovesNestedRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := f.createEvent(t)
	_, err := f.svc.AddSchedule(ctx, event.ID, domain.CreateScheduleRequest{
		Time: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, event.ID, domain.CreateMemberRequest{FullName: "Nguyen Van A"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, event.ID))

	var schedules, members int64
	require.NoError(t, f.db.Model(&domain.EventSchedule{}).Where("event_id = ?", event.ID).Count(&schedules).Error)
	require.NoError(t, f.db.Model(&domain.DelegationMember{}).Where("event_id = ?", event.ID).Count(&members).Error)
	require.Zero(t, schedules)
	require.Zero(t, members)

	_, err = f.svc.Get(ctx, event.ID)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestListFiltersByPartner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createEvent(t)
	f.createEvent(t)

	other := &partnerdomain.Partner{
		ID:        f.genID.Generate(),
		Name:      "Other",
		Status:    partnerdomain.StatusActive,
		CreatedBy: f.actor,
		CreatedAt: f.clock.Now(),
	}
	require.NoError(t, f.db.Create(other).Error)

	_, err := f.svc.Create(ctx, f.actor, domain.CreateEventRequest{
		PartnerID: other.ID,
		Name:      "Elsewhere",
		StartTime: time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	res, err := f.svc.List(ctx, domain.ListFilter{PartnerID: &f.partner})
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	require.EqualValues(t, 2, res.TotalItems)
}
