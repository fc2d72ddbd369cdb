package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/backtest"
)

// BacktestReport is the JSON shape written for one simulation run.
type BacktestReport struct {
	GeneratedAt    time.Time                   `json:"generated_at"`
	Symbol         string                      `json:"symbol"`
	RuleSet        string                      `json:"rule_set"`
	InitialCapital float64                     `json:"initial_capital"`
	FinalCapital   float64                     `json:"final_capital"`
	ExcludedBars   int                         `json:"excluded_bars"`
	BreakerTrips   int                         `json:"breaker_activations"`
	Metrics        backtest.PerformanceMetrics `json:"metrics"`
	HourBreakdown  []backtest.BucketStats      `json:"hour_breakdown"`
	DayBreakdown   []backtest.BucketStats      `json:"day_breakdown"`
	Trades         []backtest.Trade            `json:"trades"`
}

// NewBacktestReport assembles the report from a run result.
func NewBacktestReport(symbol, ruleSet string, initialCapital float64, res *backtest.Result) *BacktestReport {
	return &BacktestReport{
		GeneratedAt:    time.Now().UTC(),
		Symbol:         symbol,
		RuleSet:        ruleSet,
		InitialCapital: initialCapital,
		FinalCapital:   res.FinalCapital,
		ExcludedBars:   len(res.ExcludedBars),
		BreakerTrips:   res.BreakerActivations,
		Metrics:        res.Metrics,
		HourBreakdown:  res.HourBreakdown,
		DayBreakdown:   res.DayBreakdown,
		Trades:         res.Trades,
	}
}

// WriteJSON writes the report, indented, to path.
func (r *BacktestReport) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
