package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/analysis"
	"github.com/inference-sim/checkout-sim/sim/queueing"
	"github.com/inference-sim/checkout-sim/sim/record"
	"github.com/inference-sim/checkout-sim/sim/replay"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for the run command
	runParams     paramFlags
	showTimeline  bool   // Print the per-station replay
	timelineLimit int    // Max timeline frames to print (0 = all)
	compareTheory bool   // Print empirical vs closed-form metrics
	allowUnstable bool   // Simulate even when lambda >= s*mu
	recordPath    string // Export the event log (.csv, .json, .yaml, .sqlite3)
	quiet         bool   // Skip the per-event table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "checkout-sim",
	Short:         "Discrete-event simulator and M/M/s calculator for store checkouts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd simulates one run using parameters from the scenario file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate clients arriving at the checkouts and print the event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := runParams.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		return runSimulation(cmd.OutOrStdout(), params, runOptions{
			timeline:      showTimeline,
			timelineLimit: timelineLimit,
			compare:       compareTheory,
			allowUnstable: allowUnstable,
			recordPath:    recordPath,
			quiet:         quiet,
		})
	},
}

type runOptions struct {
	timeline      bool
	timelineLimit int
	compare       bool
	allowUnstable bool
	recordPath    string
	quiet         bool
}

func runSimulation(w io.Writer, params sim.SimulationParameters, opts runOptions) error {
	if err := params.Validate(); err != nil {
		return err
	}
	stable := params.CheckStability() == nil
	if !stable {
		if !opts.allowUnstable {
			return fmt.Errorf("%w; pass --allow-unstable to simulate anyway", params.CheckStability())
		}
		logrus.Warnf("Simulating an unstable system (rho=%.3f): the queue grows with every client", params.Utilization())
	}

	log, err := sim.Run(params)
	if err != nil {
		return err
	}

	if !opts.quiet {
		printEventLog(w, log)
		fmt.Fprintln(w)
	}
	summary := analysis.Summarize(log)
	printSummary(w, summary)

	if opts.timeline {
		frames, err := replay.Replay(log, params.Servers)
		if err != nil {
			return fmt.Errorf("replaying event log: %w", err)
		}
		fmt.Fprintln(w)
		printTimeline(w, frames, opts.timelineLimit)
	}

	if opts.compare {
		fmt.Fprintln(w)
		if !stable {
			fmt.Fprintln(w, "No steady state to compare against: the system is unstable.")
		} else {
			theory, err := queueing.Compute(params.ArrivalRate, params.ServiceRate, params.Servers)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "=== Theory vs Simulation ===")
			fmt.Fprint(w, analysis.FormatComparison(analysis.Compare(summary, theory)))
		}
	}

	if opts.recordPath != "" {
		runID := record.NewRunID()
		if err := record.Export(opts.recordPath, runID, log); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		logrus.Infof("Recorded run %s to %s", runID, opts.recordPath)
		fmt.Fprintf(w, "\nRecorded run %s to %s\n", runID, opts.recordPath)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, sim.ErrUnstable) || errors.Is(err, sim.ErrInvalidParameter) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runParams.register(runCmd.Flags())
	runCmd.Flags().BoolVar(&showTimeline, "timeline", false, "Show which client occupies each checkout after every event")
	runCmd.Flags().IntVar(&timelineLimit, "timeline-limit", 0, "Limit number of timeline frames to display (0 = all)")
	runCmd.Flags().BoolVar(&compareTheory, "compare", false, "Compare the run against the closed-form M/M/s metrics")
	runCmd.Flags().BoolVar(&allowUnstable, "allow-unstable", false, "Simulate even when arrivals outpace total service capacity")
	runCmd.Flags().StringVar(&recordPath, "record", "", "Export the event log; format by extension (.csv, .json, .yaml, .sqlite3)")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the per-event table")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(compareCmd)
}
