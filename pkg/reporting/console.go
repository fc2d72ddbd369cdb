package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/backtest"
)

// PrintSummary renders the run's headline numbers as a console table.
func PrintSummary(out io.Writer, report *BacktestReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("Backtest %s (%s)", report.Symbol, report.RuleSet))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	m := report.Metrics
	t.AppendRows([]table.Row{
		{"Initial Capital", fmt.Sprintf("%.2f", report.InitialCapital)},
		{"Final Capital", fmt.Sprintf("%.2f", report.FinalCapital)},
		{"Total Trades", m.TotalTrades},
		{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate*100)},
		{"Total Return", fmt.Sprintf("%.2f%%", m.TotalReturn*100)},
		{"Annualized Return", fmt.Sprintf("%.2f%%", m.AnnualizedReturn*100)},
		{"Profit Factor", formatProfitFactor(m.ProfitFactor)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
		{"Excluded Bars", report.ExcludedBars},
		{"Breaker Activations", report.BreakerTrips},
	})
	t.Render()
}

// PrintBreakdown renders a bucket breakdown (by hour or by weekday) as
// a console table.
func PrintBreakdown(out io.Writer, title string, buckets []backtest.BucketStats) {
	if len(buckets) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Bucket", "Trades", "Win Rate", "Total PnL", "Avg PnL"})
	for _, b := range buckets {
		t.AppendRow(table.Row{
			b.Label,
			b.Trades,
			fmt.Sprintf("%.1f%%", b.WinRate*100),
			fmt.Sprintf("%.2f", b.TotalPnL),
			fmt.Sprintf("%.2f", b.AveragePnL),
		})
	}
	t.Render()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
