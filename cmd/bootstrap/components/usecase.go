package components

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/usecase"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(cfg config.Config) config.LockConfig { return cfg.Locks },
		func(pool *pgxpool.Pool) db.Pool { return pool },
		usecase.NewStateMachine,
		usecase.NewSessionUseCase,
		usecase.NewAvailabilityUseCase,
		usecase.NewBookingUseCase,
		usecase.NewWebhookUseCase,
	),
)
