package partnerevent

import (
	"github.com/orghub/orghub/internal/partnerevent/repository"
	"github.com/orghub/orghub/internal/partnerevent/service"
	"go.uber.org/fx"
)

// Module wires the partner event service.
var Module = fx.Module("partnerevent.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
