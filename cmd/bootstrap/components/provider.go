package components

import (
	"log/slog"

	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/provider/crs"

	"go.uber.org/fx"
)

var ProviderModule = fx.Module("provider",
	fx.Provide(
		fx.Annotate(
			NewCRSProvider,
			fx.As(new(crs.Provider)),
		),
	),
)

// NewCRSProvider builds the CRS port: the HTTP client in live mode, an
// in-memory sandbox otherwise. Either way the inner provider is wrapped with
// retries and a circuit breaker so callers never see raw transport errors.
func NewCRSProvider(cfg config.Config, clk clock.Clock) *crs.ResilientProvider {
	var inner crs.Provider
	switch cfg.CRS.Mode {
	case "sandbox":
		slog.Info("CRS provider running in sandbox mode")
		inner = crs.NewSandbox(defaultSandboxRooms()...)
	default:
		inner = crs.NewHTTPClient(cfg.CRS)
	}
	return crs.NewResilientProvider(inner, cfg.Retry, cfg.Breaker, clk)
}

// defaultSandboxRooms is the demo inventory served when CRS_MODE=sandbox.
// Room ids match the seed rows in migrations.
func defaultSandboxRooms() []crs.SandboxRoom {
	return []crs.SandboxRoom{
		{RoomTypeID: "CRS-STD", Available: 10, PriceCents: 12000, TaxCents: 1200},
		{RoomTypeID: "CRS-DLX", Available: 5, PriceCents: 22000, TaxCents: 2200},
		{RoomTypeID: "CRS-STE", Available: 2, PriceCents: 48000, TaxCents: 4800},
	}
}
