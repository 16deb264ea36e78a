// Package analysis derives empirical statistics from a simulated EventLog and
// compares them with the closed-form M/M/s predictions.
package analysis

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/checkout-sim/sim"
)

// Distribution summarizes a sample of durations (hours).
type Distribution struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	P50    float64 `json:"p50" yaml:"p50"`
	P90    float64 `json:"p90" yaml:"p90"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summary aggregates statistics from one EventLog.
type Summary struct {
	Clients   int `json:"clients" yaml:"clients"`     // clients that arrived
	Completed int `json:"completed" yaml:"completed"` // clients that exited
	Servers   int `json:"servers" yaml:"servers"`

	Wait    Distribution `json:"wait" yaml:"wait"`       // service start − arrival
	Sojourn Distribution `json:"sojourn" yaml:"sojourn"` // exit − arrival
	Service Distribution `json:"service" yaml:"service"` // exit − service start

	Makespan       float64 `json:"makespan" yaml:"makespan"`               // time of the last record
	ArrivalRate    float64 `json:"arrival_rate" yaml:"arrival_rate"`       // arrivals per hour up to the last arrival
	Throughput     float64 `json:"throughput" yaml:"throughput"`           // exits per hour over the makespan
	AvgInQueue     float64 `json:"avg_in_queue" yaml:"avg_in_queue"`       // time-averaged clients waiting
	AvgInSystem    float64 `json:"avg_in_system" yaml:"avg_in_system"`     // time-averaged clients present
	Utilization    float64 `json:"utilization" yaml:"utilization"`         // time-averaged busy fraction of servers
	PeakQueue      int     `json:"peak_queue" yaml:"peak_queue"`           // most clients waiting at once
	PeakBusy       int     `json:"peak_busy" yaml:"peak_busy"`             // most servers busy at once
	WaitedFraction float64 `json:"waited_fraction" yaml:"waited_fraction"` // fraction of clients that had to wait
	EmptyFraction  float64 `json:"empty_fraction" yaml:"empty_fraction"`   // fraction of time with nobody present
}

// Summarize computes aggregate statistics from an EventLog.
// Safe for nil or empty logs (returns zero-value fields).
func Summarize(log *sim.EventLog) *Summary {
	summary := &Summary{}
	if log.Empty() {
		return summary
	}
	summary.Servers = log.Params().Servers
	summary.Makespan = log.Duration()

	var waits, sojourns, services []float64
	waited := 0
	for _, c := range log.Timeline() {
		if c.ArrivalTime == sim.Unset {
			continue
		}
		summary.Clients++
		if c.ServiceStartTime != sim.Unset {
			w := c.ServiceStartTime - c.ArrivalTime
			waits = append(waits, w)
			if w > 0 {
				waited++
			}
		}
		if c.DepartureTime != sim.Unset {
			summary.Completed++
			sojourns = append(sojourns, c.DepartureTime-c.ArrivalTime)
			services = append(services, c.DepartureTime-c.ServiceStartTime)
		}
	}
	summary.Wait = describe(waits)
	summary.Sojourn = describe(sojourns)
	summary.Service = describe(services)
	if len(waits) > 0 {
		summary.WaitedFraction = float64(waited) / float64(len(waits))
	}

	occupancy(log, summary)
	return summary
}

// occupancy integrates the queue and system populations over the log.
func occupancy(log *sim.EventLog, summary *Summary) {
	var queueArea, systemArea, busyArea, emptyTime float64
	var queued, present, busy int
	var prev, lastArrival float64
	arrivals := 0

	for _, r := range log.Records() {
		dt := r.Time - prev
		queueArea += float64(queued) * dt
		systemArea += float64(present) * dt
		busyArea += float64(busy) * dt
		if present == 0 {
			emptyTime += dt
		}
		prev = r.Time

		switch r.Kind {
		case sim.Arrival:
			queued++
			present++
			arrivals++
			lastArrival = r.Time
			if busy >= summary.Servers {
				summary.PeakQueue = max(summary.PeakQueue, queued)
			}
		case sim.ServiceStart:
			queued--
			busy++
		case sim.Exit:
			present--
			busy--
		}
		summary.PeakBusy = max(summary.PeakBusy, busy)
	}

	if span := summary.Makespan; span > 0 {
		summary.AvgInQueue = queueArea / span
		summary.AvgInSystem = systemArea / span
		summary.Throughput = float64(summary.Completed) / span
		summary.EmptyFraction = emptyTime / span
		if summary.Servers > 0 {
			summary.Utilization = busyArea / (span * float64(summary.Servers))
		}
	}
	if lastArrival > 0 {
		summary.ArrivalRate = float64(arrivals) / lastArrival
	}
}

func describe(xs []float64) Distribution {
	d := Distribution{Count: len(xs)}
	if len(xs) == 0 {
		return d
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	if len(sorted) > 1 {
		d.Mean, d.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	d.Max = sorted[len(sorted)-1]
	return d
}

// Aggregate averages the scalar fields of several summaries, e.g. replications
// of the same parameters under different seeds. Distribution fields average
// their means and take the largest Max.
func Aggregate(summaries []*Summary) *Summary {
	out := &Summary{}
	if len(summaries) == 0 {
		return out
	}
	n := float64(len(summaries))
	for _, s := range summaries {
		out.Clients += s.Clients
		out.Completed += s.Completed
		out.Servers = s.Servers
		out.Makespan += s.Makespan / n
		out.ArrivalRate += s.ArrivalRate / n
		out.Throughput += s.Throughput / n
		out.AvgInQueue += s.AvgInQueue / n
		out.AvgInSystem += s.AvgInSystem / n
		out.Utilization += s.Utilization / n
		out.WaitedFraction += s.WaitedFraction / n
		out.EmptyFraction += s.EmptyFraction / n
		out.PeakQueue = max(out.PeakQueue, s.PeakQueue)
		out.PeakBusy = max(out.PeakBusy, s.PeakBusy)
		mergeMean(&out.Wait, s.Wait, n)
		mergeMean(&out.Sojourn, s.Sojourn, n)
		mergeMean(&out.Service, s.Service, n)
	}
	return out
}

func mergeMean(dst *Distribution, src Distribution, n float64) {
	dst.Count += src.Count
	dst.Mean += src.Mean / n
	dst.StdDev += src.StdDev / n
	dst.P50 += src.P50 / n
	dst.P90 += src.P90 / n
	dst.Max = max(dst.Max, src.Max)
}
