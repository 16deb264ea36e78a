package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/inference-sim/checkout-sim/sim/queueing"
)

// Comparison is one metric evaluated both ways.
type Comparison struct {
	Metric    string  `json:"metric" yaml:"metric"`
	Theory    float64 `json:"theory" yaml:"theory"`
	Empirical float64 `json:"empirical" yaml:"empirical"`
	// RelErr is |empirical − theory| / theory, or the absolute difference
	// when theory is zero.
	RelErr float64 `json:"rel_err" yaml:"rel_err"`
}

// Compare lines up the empirical summary against the closed-form result.
// Time metrics are in hours on both sides.
func Compare(summary *Summary, theory queueing.MetricsResult) []Comparison {
	if summary == nil {
		summary = &Summary{}
	}
	return []Comparison{
		row("rho", theory.Rho, summary.Utilization),
		row("Po", theory.Po, summary.EmptyFraction),
		row("Lq", theory.Lq, summary.AvgInQueue),
		row("Ls", theory.Ls, summary.AvgInSystem),
		row("Wq", theory.Wq, summary.Wait.Mean),
		row("Ws", theory.Ws, summary.Sojourn.Mean),
	}
}

func row(metric string, theory, empirical float64) Comparison {
	diff := math.Abs(empirical - theory)
	if theory != 0 {
		diff /= theory
	}
	return Comparison{Metric: metric, Theory: theory, Empirical: empirical, RelErr: diff}
}

// Within reports whether every comparison's relative error is at most tol.
func Within(rows []Comparison, tol float64) bool {
	for _, r := range rows {
		if r.RelErr > tol {
			return false
		}
	}
	return true
}

// FormatComparison renders rows as an aligned text table.
func FormatComparison(rows []Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %14s %14s %9s\n", "metric", "theory", "empirical", "rel.err")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-6s %14.6f %14.6f %8.2f%%\n", r.Metric, r.Theory, r.Empirical, 100*r.RelErr)
	}
	return b.String()
}
