package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/queueing"
)

var (
	metricsParams paramFlags
	metricsFormat string        // text, json or yaml
	maxWait       time.Duration // Target mean wait for staffing
	maxServers    int           // Search limit for staffing
)

// metricsCmd evaluates the closed-form M/M/s model without simulating
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute steady-state M/M/s metrics (rho, Po, Lq, Ls, Wq, Ws)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := metricsParams.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-wait") {
			return printStaffing(cmd.OutOrStdout(), params, maxWait, maxServers, metricsFormat)
		}
		return printMetrics(cmd.OutOrStdout(), params, metricsFormat)
	},
}

func printMetrics(w io.Writer, params sim.SimulationParameters, format string) error {
	m, err := queueing.Compute(params.ArrivalRate, params.ServiceRate, params.Servers)
	if err != nil {
		return err
	}
	return writeMetrics(w, params, m, format)
}

// printStaffing reports the fewest checkouts whose mean wait is within target.
func printStaffing(w io.Writer, params sim.SimulationParameters, target time.Duration, limit int, format string) error {
	servers, m, err := queueing.MinServers(params.ArrivalRate, params.ServiceRate, target.Hours(), limit)
	if err != nil {
		return fmt.Errorf("no staffing up to %d checkouts keeps the mean wait under %s: %w", limit, target, err)
	}
	params.Servers = servers
	if format == "" || format == "text" {
		fmt.Fprintf(w, "%d checkouts keep the mean wait under %s\n", servers, target)
	}
	return writeMetrics(w, params, m, format)
}

func init() {
	metricsParams.register(metricsCmd.Flags())
	metricsCmd.Flags().StringVarP(&metricsFormat, "output", "o", "text", "Output format (text, json, yaml)")
	metricsCmd.Flags().DurationVar(&maxWait, "max-wait", 0, "Find the fewest checkouts whose mean wait is at most this long")
	metricsCmd.Flags().IntVar(&maxServers, "max-servers", 1000, "Upper bound for --max-wait")
}
