package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	auditrepository "github.com/orghub/orghub/internal/audit/repository"
	auditservice "github.com/orghub/orghub/internal/audit/service"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/i18n"
	"github.com/orghub/orghub/internal/unit/domain"
	unitrepository "github.com/orghub/orghub/internal/unit/repository"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	userrepository "github.com/orghub/orghub/internal/user/repository"
	"github.com/orghub/orghub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	audit auditdomain.Service
	users userdomain.Repository
	genID *snowflake.Node
	clock *clock.FakeClock
	actor snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, dbConn.AutoMigrate(
		&userdomain.User{},
		&domain.Unit{},
		&domain.UnitMember{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  auditrepository.Provide(),
	})
	users := userrepository.NewRepository(dbConn)
	tr, err := i18n.New(i18n.LangVI)
	require.NoError(t, err)
	svc := NewService(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  unitrepository.NewRepository(dbConn),
		Users: users,
		Audit: auditSvc,
		TR:    tr,
	})

	f := &fixture{
		db:    dbConn,
		svc:   svc,
		audit: auditSvc,
		users: users,
		genID: node,
		clock: clk,
	}
	f.actor = f.createUser(t, "admin@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) snowflake.ID {
	t.Helper()
	user := &userdomain.User{
		ID:             f.genID.Generate(),
		Email:          email,
		IsActive:       true,
		HashedPassword: "x",
		ThemeMode:      userdomain.ThemeDefault,
		Lang:           userdomain.LangEN,
		CreatedAt:      f.clock.Now(),
		UpdatedAt:      f.clock.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user.ID
}

func (f *fixture) members(t *testing.T, unitID snowflake.ID) []domain.UnitMember {
	t.Helper()
	var members []domain.UnitMember
	require.NoError(t, f.db.Where("unit_id = ?", unitID).Find(&members).Error)
	return members
}

func (f *fixture) auditEntries(t *testing.T, status auditdomain.LogResult) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).Where("status = ?", status).Count(&count).Error)
	return count
}

func TestCreateDedupesLeaderFromMembers(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	member := f.createUser(t, "member@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name:      "Engineering",
		LeaderID:  leader,
		MemberIDs: []snowflake.ID{leader, member, member},
	})
	require.NoError(t, err)

	members := f.members(t, unit.ID)
	require.Len(t, members, 2)

	leaders := 0
	for _, m := range members {
		if m.IsLeader {
			leaders++
			require.Equal(t, leader, m.UserID)
		}
	}
	require.Equal(t, 1, leaders)
	require.EqualValues(t, 1, f.auditEntries(t, auditdomain.ResultSuccess))
}

func TestCreateReportsEveryMissingUser(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	ghost1 := f.genID.Generate()
	ghost2 := f.genID.Generate()

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name:      "Engineering",
		LeaderID:  leader,
		MemberIDs: []snowflake.ID{ghost1, ghost2},
	})

	var missing *domain.MissingUsersError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []snowflake.ID{ghost1, ghost2}, missing.IDs)

	var units int64
	require.NoError(t, f.db.Model(&domain.Unit{}).Count(&units).Error)
	require.Zero(t, units)

	var members int64
	require.NoError(t, f.db.Model(&domain.UnitMember{}).Count(&members).Error)
	require.Zero(t, members)

	require.EqualValues(t, 0, f.auditEntries(t, auditdomain.ResultSuccess))
	require.EqualValues(t, 1, f.auditEntries(t, auditdomain.ResultFailed))
}

func TestCreateMissingLeaderWritesFailureAudit(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name:     "Engineering",
		LeaderID: f.genID.Generate(),
	})

	var missing *domain.MissingUsersError
	require.ErrorAs(t, err, &missing)
	require.EqualValues(t, 1, f.auditEntries(t, auditdomain.ResultFailed))
}

func TestCreateDuplicateName(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader,
	})
	require.ErrorIs(t, err, domain.ErrUnitNameExists)
}

func TestUpdateLeaderMustBeMember(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	outsider := f.createUser(t, "outsider@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader,
	})
	require.NoError(t, err)

	err = f.svc.Update(context.Background(), f.actor, unit.ID, domain.UpdateUnitRequest{
		LeaderID: &outsider,
	})
	require.ErrorIs(t, err, domain.ErrLeaderNotMember)

	members := f.members(t, unit.ID)
	require.Len(t, members, 1)
	require.True(t, members[0].IsLeader)
	require.Equal(t, leader, members[0].UserID)
}

func TestUpdateLeaderFlipsFlagInPlace(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	member := f.createUser(t, "member@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader, MemberIDs: []snowflake.ID{member},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(context.Background(), f.actor, unit.ID, domain.UpdateUnitRequest{
		LeaderID: &member,
	}))

	for _, m := range f.members(t, unit.ID) {
		require.Equal(t, m.UserID == member, m.IsLeader)
	}
}

func TestUpdateReplacesMembershipList(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	old := f.createUser(t, "old@example.com")
	fresh := f.createUser(t, "fresh@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader, MemberIDs: []snowflake.ID{old},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(context.Background(), f.actor, unit.ID, domain.UpdateUnitRequest{
		UserIDs:  []snowflake.ID{fresh, leader},
		LeaderID: &leader,
	}))

	members := f.members(t, unit.ID)
	require.Len(t, members, 2)
	for _, m := range members {
		require.NotEqual(t, old, m.UserID)
		require.Equal(t, m.UserID == leader, m.IsLeader)
	}
}

func TestDeleteNotFoundWritesFailureAudit(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), f.actor, f.genID.Generate())
	require.ErrorIs(t, err, domain.ErrUnitNotFound)
	require.EqualValues(t, 1, f.auditEntries(t, auditdomain.ResultFailed))
}

func TestDeleteReferencedUnitLeftIntact(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader,
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Exec(
		`CREATE TABLE unit_refs (id INTEGER PRIMARY KEY, unit_id INTEGER NOT NULL REFERENCES units(id))`,
	).Error)
	require.NoError(t, f.db.Exec(`INSERT INTO unit_refs (id, unit_id) VALUES (1, ?)`, unit.ID).Error)

	err = f.svc.Delete(context.Background(), f.actor, unit.ID)
	require.ErrorIs(t, err, domain.ErrUnitReferenced)

	_, err = unitrepository.NewRepository(f.db).FindByID(context.Background(), unit.ID)
	require.NoError(t, err)
	require.NotEmpty(t, f.members(t, unit.ID))
}

func TestDeleteRemovesUnitAndMembers(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")

	unit, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.actor, unit.ID))
	require.Empty(t, f.members(t, unit.ID))
	require.EqualValues(t, 2, f.auditEntries(t, auditdomain.ResultSuccess))
}

func TestFilterAccentInsensitiveName(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Việt Nam", LeaderID: leader,
	})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "France", LeaderID: leader,
	})
	require.NoError(t, err)

	units, err := f.svc.Filter(context.Background(), domain.FilterRequest{Name: "viet"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, "Việt Nam", units[0].Name)
}

func TestFilterEnrichesMemberCountAndLeader(t *testing.T) {
	f := newFixture(t)
	leader := f.createUser(t, "leader@example.com")
	member := f.createUser(t, "member@example.com")

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Engineering", LeaderID: leader, MemberIDs: []snowflake.ID{member},
	})
	require.NoError(t, err)

	units, err := f.svc.Filter(context.Background(), domain.FilterRequest{})
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, 2, units[0].MemberCount)
	require.NotNil(t, units[0].Leader)
	require.Equal(t, leader, units[0].Leader.ID)
	require.Equal(t, "leader@example.com", units[0].Leader.Email)
}

func TestFilterByLeaderSet(t *testing.T) {
	f := newFixture(t)
	leaderA := f.createUser(t, "a@example.com")
	leaderB := f.createUser(t, "b@example.com")

	_, err := f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Alpha", LeaderID: leaderA,
	})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.actor, domain.CreateUnitRequest{
		Name: "Beta", LeaderID: leaderB,
	})
	require.NoError(t, err)

	units, err := f.svc.Filter(context.Background(), domain.FilterRequest{
		LeaderID: []snowflake.ID{leaderB},
	})
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, "Beta", units[0].Name)
}
