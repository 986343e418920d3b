package unit

import (
	"github.com/orghub/orghub/internal/unit/repository"
	"github.com/orghub/orghub/internal/unit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("unit.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
