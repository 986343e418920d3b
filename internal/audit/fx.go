package audit

import (
	"github.com/orghub/orghub/internal/audit/repository"
	"github.com/orghub/orghub/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
