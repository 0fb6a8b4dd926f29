package bootstrap

import (
	"crs-booking-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	TokenModule,
	components.RepositoryModule,
	components.ProviderModule,
	components.UseCaseModule,
	components.HandlerModule,
)
