package mailer

import (
	"github.com/orghub/orghub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the mailer. Without an SMTP host configured the no-op
// implementation is used.
var Module = fx.Module("mailer",
	fx.Provide(New),
)

func New(log *zap.Logger, cfg config.Config) (Mailer, error) {
	if cfg.SMTPHost == "" {
		return NoOp{}, nil
	}
	return NewSMTP(log, cfg)
}
