package i18n

import (
	"github.com/orghub/orghub/internal/config"
	"go.uber.org/fx"
)

// Module wires the translator with the configured default locale.
var Module = fx.Module("i18n",
	fx.Provide(func(cfg config.Config) (*Translator, error) {
		return New(cfg.DefaultLocale)
	}),
)
