package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/analysis"
	"github.com/inference-sim/checkout-sim/sim/queueing"
	"github.com/inference-sim/checkout-sim/sim/replay"
)

// printEventLog writes one line per record.
func printEventLog(w io.Writer, log *sim.EventLog) {
	fmt.Fprintf(w, "=== Event Log (%s) ===\n", log.Params())
	if log.Empty() {
		fmt.Fprintln(w, "(no events)")
		return
	}
	fmt.Fprintf(w, "%12s  %-12s  %6s  %-13s  %s\n", "time (h)", "clock", "client", "event", "queue")
	for _, r := range log.Records() {
		queue := ""
		if r.Kind == sim.Arrival {
			queue = fmt.Sprint(r.QueueLength)
		}
		fmt.Fprintf(w, "%12.6f  %-12s  %6d  %-13s  %s\n", r.Time, FormatClock(r.Time), r.ClientID, r.Kind, queue)
	}
}

func printSummary(w io.Writer, s *analysis.Summary) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Clients served     : %d/%d\n", s.Completed, s.Clients)
	fmt.Fprintf(w, "Makespan           : %s\n", FormatClock(s.Makespan))
	fmt.Fprintf(w, "Mean wait          : %s (p90 %s, max %s)\n",
		HoursToDuration(s.Wait.Mean), HoursToDuration(s.Wait.P90), HoursToDuration(s.Wait.Max))
	fmt.Fprintf(w, "Mean time in system: %s\n", HoursToDuration(s.Sojourn.Mean))
	fmt.Fprintf(w, "Clients who waited : %.1f%%\n", 100*s.WaitedFraction)
	fmt.Fprintf(w, "Avg in queue       : %.4f (peak %d)\n", s.AvgInQueue, s.PeakQueue)
	fmt.Fprintf(w, "Avg in system      : %.4f\n", s.AvgInSystem)
	fmt.Fprintf(w, "Utilization        : %.1f%% (peak busy %d/%d)\n", 100*s.Utilization, s.PeakBusy, s.Servers)
}

func printTimeline(w io.Writer, frames []replay.Frame, limit int) {
	fmt.Fprintln(w, "=== Checkout Timeline ===")
	for i, f := range frames {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "... %d more frames\n", len(frames)-limit)
			break
		}
		fmt.Fprintln(w, f)
	}
}

// writeMetrics renders a MetricsResult as text, json or yaml.
func writeMetrics(w io.Writer, p sim.SimulationParameters, m queueing.MetricsResult, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		fmt.Fprintf(w, "=== M/M/%d Metrics (lambda=%.4g/h, mu=%.4g/h) ===\n", p.Servers, p.ArrivalRate, p.ServiceRate)
		fmt.Fprintf(w, "rho (utilization)         : %.6f\n", m.Rho)
		fmt.Fprintf(w, "Po  (system empty)        : %.6f\n", m.Po)
		fmt.Fprintf(w, "Lq  (mean clients queued) : %.6f\n", m.Lq)
		fmt.Fprintf(w, "Ls  (mean clients present): %.6f\n", m.Ls)
		fmt.Fprintf(w, "Wq  (mean wait)           : %.6f h (%s)\n", m.Wq, HoursToDuration(m.Wq))
		fmt.Fprintf(w, "Ws  (mean time in system) : %.6f h (%s)\n", m.Ws, HoursToDuration(m.Ws))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
