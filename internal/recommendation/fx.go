package recommendation

import (
	"github.com/orghub/orghub/internal/recommendation/repository"
	"github.com/orghub/orghub/internal/recommendation/service"
	"go.uber.org/fx"
)

// Module wires the recommendation service.
var Module = fx.Module("recommendation.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
