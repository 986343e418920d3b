package event

import (
	"github.com/orghub/orghub/internal/event/repository"
	"github.com/orghub/orghub/internal/event/service"
	"go.uber.org/fx"
)

// Module wires the event service.
var Module = fx.Module("event.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
