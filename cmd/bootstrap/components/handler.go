package components

import (
	"crs-booking-engine/internal/handler"
	"crs-booking-engine/internal/handler/api"
	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSessionHandler,
		api.NewBookingHandler,
		api.NewWebhookHandler,
		api.NewAvailabilityHandler,
		middleware.NewSessionMiddleware,
		func(cfg config.Config, clk clock.Clock) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit, clk)
		},
		func(session *api.SessionHandler, booking *api.BookingHandler, webhook *api.WebhookHandler, availability *api.AvailabilityHandler) handler.Handlers {
			return handler.Handlers{
				Session:      session,
				Booking:      booking,
				Webhook:      webhook,
				Availability: availability,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)
