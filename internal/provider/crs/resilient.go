package crs

import (
	"context"

	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/resilience"
)

// ResilientProvider wraps another Provider with one circuit breaker per
// operation class around the shared retry executor:
// breaker(retry(call)). The breaker shields the process from a persistently
// failing CRS; the retrier smooths transient blips underneath it.
type ResilientProvider struct {
	inner Provider
	retry resilience.Policy

	availability *resilience.CircuitBreaker
	pricing      *resilience.CircuitBreaker
	reservation  *resilience.CircuitBreaker
}

func NewResilientProvider(inner Provider, retryCfg config.RetryConfig, breakerCfg config.BreakerConfig, clk clock.Clock) *ResilientProvider {
	return &ResilientProvider{
		inner:        inner,
		retry:        resilience.NewPolicy(retryCfg),
		availability: resilience.NewCircuitBreaker("crs.availability", breakerCfg, clk),
		pricing:      resilience.NewCircuitBreaker("crs.pricing", breakerCfg, clk),
		reservation:  resilience.NewCircuitBreaker("crs.reservation", breakerCfg, clk),
	}
}

func (p *ResilientProvider) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	return resilience.Call(p.availability, func() (*AvailabilityResponse, error) {
		return resilience.Execute(ctx, p.retry, "crs.check_availability", func(ctx context.Context) (*AvailabilityResponse, error) {
			return p.inner.CheckAvailability(ctx, req)
		})
	})
}

func (p *ResilientProvider) GetPricing(ctx context.Context, req PricingRequest) (*PricingResponse, error) {
	return resilience.Call(p.pricing, func() (*PricingResponse, error) {
		return resilience.Execute(ctx, p.retry, "crs.get_pricing", func(ctx context.Context) (*PricingResponse, error) {
			return p.inner.GetPricing(ctx, req)
		})
	})
}

func (p *ResilientProvider) CreateReservation(ctx context.Context, req ReservationRequest) (*ReservationResponse, error) {
	return resilience.Call(p.reservation, func() (*ReservationResponse, error) {
		return resilience.Execute(ctx, p.retry, "crs.create_reservation", func(ctx context.Context) (*ReservationResponse, error) {
			return p.inner.CreateReservation(ctx, req)
		})
	})
}
