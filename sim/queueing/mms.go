// Package queueing computes closed-form steady-state metrics for M/M/s queues.
// It has no dependency on the simulation engine and holds no state: every
// function is a pure function of its arguments.
package queueing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidParameter reports a non-positive rate or a server count below one.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnstable reports λ ≥ s·μ. The queue grows without bound and the
	// steady-state formulas are undefined.
	ErrUnstable = errors.New("unstable system")
)

// MetricsResult holds steady-state performance measures. Times are in hours
// when rates are given per hour.
type MetricsResult struct {
	Rho float64 `json:"rho" yaml:"rho"` // utilization λ/(s·μ)
	Po  float64 `json:"po" yaml:"po"`   // probability the system is empty
	Lq  float64 `json:"lq" yaml:"lq"`   // expected clients waiting
	Ls  float64 `json:"ls" yaml:"ls"`   // expected clients in system
	Wq  float64 `json:"wq" yaml:"wq"`   // expected wait before service
	Ws  float64 `json:"ws" yaml:"ws"`   // expected total time in system
}

func (m MetricsResult) String() string {
	return fmt.Sprintf("rho=%.6f; Po=%.6f; Lq=%.6f; Ls=%.6f; Wq=%.6f; Ws=%.6f",
		m.Rho, m.Po, m.Lq, m.Ls, m.Wq, m.Ws)
}

// ValidateRates checks the inputs shared by every formula in this package.
func ValidateRates(lambda, mu float64, servers int) error {
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return fmt.Errorf("%w: arrival rate must be positive and finite, got %v", ErrInvalidParameter, lambda)
	}
	if !(mu > 0) || math.IsInf(mu, 0) {
		return fmt.Errorf("%w: service rate must be positive and finite, got %v", ErrInvalidParameter, mu)
	}
	if servers < 1 {
		return fmt.Errorf("%w: server count must be at least 1, got %d", ErrInvalidParameter, servers)
	}
	return nil
}

// Utilization returns ρ = λ/(s·μ). It does not validate its inputs.
func Utilization(lambda, mu float64, servers int) float64 {
	return lambda / (float64(servers) * mu)
}

// CheckStability returns ErrUnstable (wrapped) when λ ≥ s·μ.
func CheckStability(lambda, mu float64, servers int) error {
	if err := ValidateRates(lambda, mu, servers); err != nil {
		return err
	}
	if rho := Utilization(lambda, mu, servers); rho >= 1 {
		return fmt.Errorf("%w: rho=%.4f (lambda=%v >= s*mu=%v)", ErrUnstable, rho, lambda, float64(servers)*mu)
	}
	return nil
}

// Compute returns the steady-state M/M/s metrics for arrival rate lambda,
// per-server service rate mu and the given number of servers.
func Compute(lambda, mu float64, servers int) (MetricsResult, error) {
	if err := CheckStability(lambda, mu, servers); err != nil {
		return MetricsResult{}, err
	}
	var m MetricsResult
	if servers == 1 {
		m = singleServer(lambda, mu)
	} else {
		m = multiServer(lambda, mu, servers)
	}
	return m.clamped(), nil
}

func singleServer(lambda, mu float64) MetricsResult {
	rho := lambda / mu
	return MetricsResult{
		Rho: rho,
		Po:  1 - rho,
		Ls:  rho / (1 - rho),
		Lq:  lambda * lambda / (mu * (mu - lambda)),
		Ws:  1 / (mu - lambda),
		Wq:  lambda / (mu * (mu - lambda)),
	}
}

// multiServer evaluates the Erlang-C normalization in log space:
// log(a^n/n!) = n·ln(a) − lnΓ(n+1). No factorial is ever formed, so large
// server counts neither overflow nor lose the tail terms.
func multiServer(lambda, mu float64, servers int) MetricsResult {
	a := lambda / mu
	rho := a / float64(servers)

	logSum, logTail := erlangLogTerms(a, servers, rho)
	po := math.Exp(-logSum)
	// P(wait) = a^s/(s!(1−ρ)) · Po
	pWait := math.Exp(logTail - logSum)
	lq := pWait * rho / (1 - rho)
	wq := lq / lambda
	ws := wq + 1/mu

	return MetricsResult{
		Rho: rho,
		Po:  po,
		Lq:  lq,
		Wq:  wq,
		Ws:  ws,
		Ls:  lambda * ws,
	}
}

// erlangLogTerms returns log(Σ_{n<s} a^n/n! + a^s/(s!(1−ρ))) and the log of
// the final (waiting) term.
func erlangLogTerms(a float64, servers int, rho float64) (logSum, logTail float64) {
	logA := math.Log(a)
	terms := make([]float64, servers+1)
	for n := 0; n < servers; n++ {
		lg, _ := math.Lgamma(float64(n + 1))
		terms[n] = float64(n)*logA - lg
	}
	lg, _ := math.Lgamma(float64(servers + 1))
	logTail = float64(servers)*logA - lg - math.Log(1-rho)
	terms[servers] = logTail
	return floats.LogSumExp(terms), logTail
}

// ErlangC returns the probability that an arriving client has to wait for a
// server, for offered load a = λ/μ. It returns ErrUnstable when a ≥ s.
func ErlangC(a float64, servers int) (float64, error) {
	if !(a > 0) || servers < 1 {
		return 0, fmt.Errorf("%w: offered load %v with %d servers", ErrInvalidParameter, a, servers)
	}
	rho := a / float64(servers)
	if rho >= 1 {
		return 0, fmt.Errorf("%w: offered load %v >= %d servers", ErrUnstable, a, servers)
	}
	logSum, logTail := erlangLogTerms(a, servers, rho)
	return clamp(math.Exp(logTail - logSum)), nil
}

func (m MetricsResult) clamped() MetricsResult {
	return MetricsResult{
		Rho: clamp(m.Rho),
		Po:  clamp(m.Po),
		Lq:  clamp(m.Lq),
		Ls:  clamp(m.Ls),
		Wq:  clamp(m.Wq),
		Ws:  clamp(m.Ws),
	}
}

// clamp guards against tiny negative values from floating-point cancellation.
func clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// MinServers returns the smallest server count for which the queue is stable
// and the expected wait Wq does not exceed maxWait (same time unit as 1/λ).
// A maxWait of zero or less only requires stability.
func MinServers(lambda, mu, maxWait float64, limit int) (int, MetricsResult, error) {
	if err := ValidateRates(lambda, mu, 1); err != nil {
		return 0, MetricsResult{}, err
	}
	start := int(math.Floor(lambda/mu)) + 1
	for s := start; s <= limit; s++ {
		m, err := Compute(lambda, mu, s)
		if err != nil {
			continue
		}
		if maxWait <= 0 || m.Wq <= maxWait {
			return s, m, nil
		}
	}
	return 0, MetricsResult{}, fmt.Errorf("%w: no server count up to %d meets wait target %v", ErrUnstable, limit, maxWait)
}
