package sim

import (
	"fmt"

	"github.com/inference-sim/checkout-sim/sim/queueing"
)

// Errors returned by parameter validation. They alias the queueing package's
// sentinels so that callers can use errors.Is against either package.
var (
	ErrInvalidParameter = queueing.ErrInvalidParameter
	ErrUnstable         = queueing.ErrUnstable
)

// SimulationParameters configures one run of the checkout queue.
// Rates are in clients per hour; all simulated times are in hours.
type SimulationParameters struct {
	ArrivalRate float64 `json:"arrival_rate" yaml:"arrival_rate"` // λ
	ServiceRate float64 `json:"service_rate" yaml:"service_rate"` // μ, per server
	Servers     int     `json:"servers" yaml:"servers"`           // s
	Clients     int     `json:"clients" yaml:"clients"`           // N
	Seed        int64   `json:"seed" yaml:"seed"`
}

// Validate rejects configurations whose distributions or resource pool are
// undefined. Clients == 0 is accepted and yields an empty run.
// Stability is checked separately by CheckStability since a finite run of an
// overloaded queue still terminates.
func (p SimulationParameters) Validate() error {
	if err := queueing.ValidateRates(p.ArrivalRate, p.ServiceRate, p.Servers); err != nil {
		return err
	}
	if p.Clients < 0 {
		return fmt.Errorf("%w: client count must not be negative, got %d", ErrInvalidParameter, p.Clients)
	}
	return nil
}

// CheckStability returns a wrapped ErrUnstable when λ ≥ s·μ.
func (p SimulationParameters) CheckStability() error {
	return queueing.CheckStability(p.ArrivalRate, p.ServiceRate, p.Servers)
}

// Utilization returns ρ = λ/(s·μ).
func (p SimulationParameters) Utilization() float64 {
	return queueing.Utilization(p.ArrivalRate, p.ServiceRate, p.Servers)
}

func (p SimulationParameters) String() string {
	return fmt.Sprintf("M/M/%d lambda=%.4g/h mu=%.4g/h clients=%d seed=%d",
		p.Servers, p.ArrivalRate, p.ServiceRate, p.Clients, p.Seed)
}
