package migration

import (
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	"github.com/orghub/orghub/internal/config"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	recdomain "github.com/orghub/orghub/internal/recommendation/domain"
	"github.com/orghub/orghub/internal/seed"
	unitdomain "github.com/orghub/orghub/internal/unit/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module brings the schema up to date on startup and seeds the
// bootstrap superuser.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQLite and MySQL setups are for local development; the
			// ORM schema keeps them usable without hand-written DDL.
			err := conn.AutoMigrate(
				&userdomain.User{},
				&unitdomain.Unit{},
				&unitdomain.UnitMember{},
				&partnerdomain.Partner{},
				&eventdomain.Event{},
				&pedomain.PartnerEvent{},
				&pedomain.EventSchedule{},
				&pedomain.DelegationMember{},
				&recdomain.Recommendation{},
				&auditdomain.AuditLog{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsureSuperuser(conn, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
	}),
)
