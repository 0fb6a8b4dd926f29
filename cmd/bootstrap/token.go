package bootstrap

import (
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/token"

	"go.uber.org/fx"
)

var TokenModule = fx.Module("token",
	fx.Provide(
		NewTokenService,
	),
)

func NewTokenService(cfg config.Config) *token.Service {
	return token.NewService(cfg.Token.Secret, cfg.Token.Duration)
}
