package user

import (
	"github.com/orghub/orghub/internal/user/repository"
	"github.com/orghub/orghub/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
