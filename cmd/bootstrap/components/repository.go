package components

import (
	repo_impl "crs-booking-engine/internal/infra/repository"
	"crs-booking-engine/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewSessionRepository,
			fx.As(new(usecase.SessionRepository)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewRoomTypeRepository,
			fx.As(new(usecase.RoomTypeRepository)),
		),
		fx.Annotate(
			repo_impl.NewInventoryLockRepository,
			fx.As(new(usecase.InventoryLockRepository)),
		),
		fx.Annotate(
			repo_impl.NewProcessingLockRepository,
			fx.As(new(usecase.ProcessingLockRepository)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(usecase.IdempotencyRepository)),
		),
		fx.Annotate(
			repo_impl.NewAuditRepository,
			fx.As(new(usecase.AuditRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(usecase.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(usecase.NotificationRepository)),
		),
	),
)
