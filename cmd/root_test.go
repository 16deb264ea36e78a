package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/queueing"
	"github.com/inference-sim/checkout-sim/sim/record"
)

func TestRunSimulation_UnstableRefusedByDefault(t *testing.T) {
	// GIVEN the default scenario: 85 clients/h at a single 55/h checkout
	var buf bytes.Buffer

	// WHEN run without --allow-unstable
	err := runSimulation(&buf, defaultParams, runOptions{})

	// THEN nothing is simulated
	assert.ErrorIs(t, err, sim.ErrUnstable)
	assert.Empty(t, buf.String())
}

func TestRunSimulation_UnstableAllowed(t *testing.T) {
	var buf bytes.Buffer
	err := runSimulation(&buf, defaultParams, runOptions{allowUnstable: true, compare: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "=== Event Log")
	assert.Contains(t, out, "Clients served     : 15/15")
	assert.Contains(t, out, "system is unstable")
	assert.Equal(t, 15, strings.Count(out, "service_start"))
}

func TestRunSimulation_TimelineCompareAndRecord(t *testing.T) {
	// GIVEN a stable two-checkout scenario
	p := defaultParams
	p.Servers = 2
	path := filepath.Join(t.TempDir(), "run.sqlite3")

	var buf bytes.Buffer
	err := runSimulation(&buf, p, runOptions{timeline: true, timelineLimit: 5, compare: true, recordPath: path, quiet: true})
	require.NoError(t, err)

	// THEN every requested section is printed
	out := buf.String()
	assert.NotContains(t, out, "=== Event Log")
	assert.Contains(t, out, "=== Checkout Timeline ===")
	assert.Contains(t, out, "... 40 more frames")
	assert.Contains(t, out, "=== Theory vs Simulation ===")
	assert.Contains(t, out, "Recorded run")

	// THEN the recorded run loads back from the database
	rec, err := record.OpenSQLiteRecorder(path)
	require.NoError(t, err)
	defer rec.Close()
	ids, err := rec.Runs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	params, records, err := rec.Load(ids[0])
	require.NoError(t, err)
	assert.Equal(t, p, params)
	assert.Len(t, records, 45)
}

func TestRunSimulation_InvalidParameters(t *testing.T) {
	p := defaultParams
	p.ServiceRate = 0
	err := runSimulation(&bytes.Buffer{}, p, runOptions{allowUnstable: true})
	assert.ErrorIs(t, err, sim.ErrInvalidParameter)
}

func TestPrintMetrics_Formats(t *testing.T) {
	p := sim.SimulationParameters{ArrivalRate: 10, ServiceRate: 8, Servers: 2}

	var text bytes.Buffer
	require.NoError(t, printMetrics(&text, p, "text"))
	assert.Contains(t, text.String(), "=== M/M/2 Metrics (lambda=10/h, mu=8/h) ===")
	assert.Contains(t, text.String(), "Lq  (mean clients queued) : 0.801282")

	var js bytes.Buffer
	require.NoError(t, printMetrics(&js, p, "json"))
	var m queueing.MetricsResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &m))
	assert.InDelta(t, 3.0/13.0, m.Po, 1e-9)

	var ys bytes.Buffer
	require.NoError(t, printMetrics(&ys, p, "yaml"))
	assert.Contains(t, ys.String(), "rho: 0.625")

	assert.Error(t, printMetrics(&bytes.Buffer{}, p, "xml"))
}

func TestPrintMetrics_Unstable(t *testing.T) {
	err := printMetrics(&bytes.Buffer{}, defaultParams, "text")
	assert.ErrorIs(t, err, queueing.ErrUnstable)
}

func TestPrintStaffing(t *testing.T) {
	// GIVEN the default arrival and service rates and a 15 second wait target
	var buf bytes.Buffer
	err := printStaffing(&buf, defaultParams, 15*time.Second, 20, "text")
	require.NoError(t, err)

	// THEN three checkouts are needed (two leave clients waiting about 97 seconds)
	assert.Contains(t, buf.String(), "3 checkouts keep the mean wait under 15s")

	err = printStaffing(&bytes.Buffer{}, defaultParams, time.Millisecond, 2, "text")
	assert.ErrorIs(t, err, queueing.ErrUnstable)
}

func TestCompareRuns(t *testing.T) {
	p := sim.SimulationParameters{ArrivalRate: 85, ServiceRate: 55, Servers: 3, Clients: 500, Seed: 1}
	var buf bytes.Buffer
	require.NoError(t, compareRuns(context.Background(), &buf, p, 4, 2))
	assert.Contains(t, buf.String(), "(4 runs, seeds 1..4)")
	assert.Contains(t, buf.String(), "Wq")

	assert.Error(t, compareRuns(context.Background(), &buf, p, 0, 2))
	assert.ErrorIs(t, compareRuns(context.Background(), &buf, defaultParams, 2, 2), sim.ErrUnstable)
}

func TestRootCommand_MetricsSubcommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"metrics", "--servers", "2", "-o", "json"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	var m queueing.MetricsResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.InDelta(t, 85.0/110.0, m.Rho, 1e-12)
}
