package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Rate is an event rate in events per hour. It parses "85", "85/h",
// "1.5/min" or "0.02/s" and converts to per hour. Rate implements
// pflag.Value so it can be bound directly to a flag.
type Rate float64

var rateUnits = map[string]float64{
	"s": 3600, "sec": 3600, "second": 3600,
	"m": 60, "min": 60, "minute": 60,
	"h": 1, "hr": 1, "hour": 1,
}

// ParseRate converts a rate expression to events per hour.
func ParseRate(s string) (float64, error) {
	value, unit, hasUnit := strings.Cut(strings.TrimSpace(s), "/")
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	factor := 1.0
	if hasUnit {
		f, ok := rateUnits[strings.ToLower(strings.TrimSpace(unit))]
		if !ok {
			return 0, fmt.Errorf("invalid rate %q: unknown unit %q (want s, min or h)", s, unit)
		}
		factor = f
	}
	return v * factor, nil
}

// PerHour converts a mean interval between events to a rate per hour.
func PerHour(interval time.Duration) (float64, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return float64(time.Hour) / float64(interval), nil
}

// HoursToDuration converts a time in hours to a time.Duration, rounded to the millisecond.
func HoursToDuration(hours float64) time.Duration {
	if math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0
	}
	return time.Duration(hours * float64(time.Hour)).Round(time.Millisecond)
}

// FormatClock renders a simulation time in hours as HH:MM:SS.mmm.
func FormatClock(hours float64) string {
	d := HoursToDuration(hours)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, d/time.Millisecond)
}

func (r *Rate) String() string {
	return strconv.FormatFloat(float64(*r), 'g', -1, 64) + "/h"
}

// Set parses a rate expression.
func (r *Rate) Set(s string) error {
	v, err := ParseRate(s)
	if err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

func (r *Rate) Type() string { return "rate" }

// UnmarshalYAML accepts both plain numbers and rate expressions.
func (r *Rate) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: rate must be a scalar", n.Line)
	}
	if err := r.Set(n.Value); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	return nil
}

// Interval is a mean time between events, written as a Go duration ("65s", "1m5s").
type Interval time.Duration

func (i *Interval) UnmarshalYAML(n *yaml.Node) error {
	d, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid interval %q: %w", n.Line, n.Value, err)
	}
	*i = Interval(d)
	return nil
}
