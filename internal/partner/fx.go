package partner

import (
	"github.com/orghub/orghub/internal/partner/repository"
	"github.com/orghub/orghub/internal/partner/service"
	"go.uber.org/fx"
)

var Module = fx.Module("partner.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
