package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/orghub/orghub/internal/audit"
	"github.com/orghub/orghub/internal/auth"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/config"
	"github.com/orghub/orghub/internal/event"
	"github.com/orghub/orghub/internal/i18n"
	"github.com/orghub/orghub/internal/mailer"
	"github.com/orghub/orghub/internal/migration"
	"github.com/orghub/orghub/internal/observability"
	"github.com/orghub/orghub/internal/partner"
	"github.com/orghub/orghub/internal/partnerevent"
	"github.com/orghub/orghub/internal/ratelimit"
	"github.com/orghub/orghub/internal/recommendation"
	"github.com/orghub/orghub/internal/server"
	"github.com/orghub/orghub/internal/storage"
	"github.com/orghub/orghub/internal/tokenstore"
	"github.com/orghub/orghub/internal/unit"
	"github.com/orghub/orghub/internal/user"
	"github.com/orghub/orghub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		tokenstore.Module,
		ratelimit.Module,
		i18n.Module,
		mailer.Module,
		storage.Module,
		migration.Module,

		// Domains
		audit.Module,
		user.Module,
		auth.Module,
		unit.Module,
		partner.Module,
		event.Module,
		partnerevent.Module,
		recommendation.Module,

		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
