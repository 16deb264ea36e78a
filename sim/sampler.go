package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DurationSampler draws non-negative durations in hours.
type DurationSampler interface {
	Sample() float64
	// Mean returns the expected value of Sample.
	Mean() float64
}

// ExponentialSampler draws Exp(rate) durations, mean 1/rate.
// Each call is independent of every other: service times are resampled per client.
type ExponentialSampler struct {
	dist distuv.Exponential
}

// NewExponentialSampler creates a sampler for the given rate (events per hour)
// drawing from src. Panics if rate is not positive.
func NewExponentialSampler(rate float64, src rand.Source) *ExponentialSampler {
	if !(rate > 0) {
		panic(fmt.Sprintf("NewExponentialSampler: rate must be > 0, got %v", rate))
	}
	return &ExponentialSampler{dist: distuv.Exponential{Rate: rate, Src: src}}
}

// Sample returns the next duration.
func (s *ExponentialSampler) Sample() float64 {
	return s.dist.Rand()
}

// Mean returns 1/rate.
func (s *ExponentialSampler) Mean() float64 {
	return s.dist.Mean()
}
