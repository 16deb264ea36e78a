package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/analysis"
	"github.com/inference-sim/checkout-sim/sim/queueing"
)

var (
	compareParams paramFlags
	replications  int // Number of independent seeds
	workers       int // Concurrent runs
)

// compareCmd replicates a scenario over many seeds and checks it against the closed form
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Replicate the simulation over several seeds and compare with M/M/s theory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := compareParams.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		return compareRuns(cmd.Context(), cmd.OutOrStdout(), params, replications, workers)
	},
}

func compareRuns(ctx context.Context, w io.Writer, params sim.SimulationParameters, runs, workers int) error {
	if runs < 1 {
		return fmt.Errorf("need at least one replication, got %d", runs)
	}
	theory, err := queueing.Compute(params.ArrivalRate, params.ServiceRate, params.Servers)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	seeds := sim.Seeds(params.Seed, runs)
	logrus.Infof("Replicating %s over %d seeds on %d workers", params, runs, workers)
	logs, err := sim.Replicate(ctx, params, seeds, workers)
	if err != nil {
		return err
	}
	summaries := make([]*analysis.Summary, len(logs))
	for i, l := range logs {
		summaries[i] = analysis.Summarize(l)
	}

	fmt.Fprintf(w, "=== Theory vs Simulation (%d runs, seeds %d..%d) ===\n", runs, seeds[0], seeds[len(seeds)-1])
	fmt.Fprint(w, analysis.FormatComparison(analysis.Compare(analysis.Aggregate(summaries), theory)))
	return nil
}

func init() {
	compareParams.register(compareCmd.Flags())
	compareCmd.Flags().IntVarP(&replications, "replications", "r", 10, "Number of independent runs (seeds seed, seed+1, ...)")
	compareCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Runs simulated concurrently")
}
