package backtest

import (
	"encoding/json"
	"math"
)

const tradingDaysPerYear = 252

// PerformanceMetrics summarizes a trade list against starting capital.
type PerformanceMetrics struct {
	TotalTrades      int     `json:"total_trades"`
	WinningTrades    int     `json:"winning_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	TotalPnL         float64 `json:"total_pnl"`
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	ProfitFactor     float64 `json:"profit_factor"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	AverageWin       float64 `json:"average_win"`
	AverageLoss      float64 `json:"average_loss"`
	LargestWin       float64 `json:"largest_win"`
	LargestLoss      float64 `json:"largest_loss"`
}

// MarshalJSON renders an infinite profit factor as the string "inf",
// which JSON numbers cannot represent.
func (m PerformanceMetrics) MarshalJSON() ([]byte, error) {
	type alias PerformanceMetrics
	out := struct {
		alias
		ProfitFactor interface{} `json:"profit_factor"`
	}{alias: alias(m), ProfitFactor: m.ProfitFactor}
	if math.IsInf(m.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}

// Analyze computes summary statistics over the completed trades.
// Zero-pnl trades count as neither winners nor losers. Profit factor is
// +Inf with at least one winner and no losers, and 0 with no trades.
func Analyze(trades []Trade, initialCapital float64) PerformanceMetrics {
	m := PerformanceMetrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	var grossProfit, grossLoss float64
	for _, t := range trades {
		m.TotalPnL += t.PnL
		switch {
		case t.PnL > 0:
			m.WinningTrades++
			grossProfit += t.PnL
			if t.PnL > m.LargestWin {
				m.LargestWin = t.PnL
			}
		case t.PnL < 0:
			m.LosingTrades++
			grossLoss += -t.PnL
			if t.PnL < m.LargestLoss {
				m.LargestLoss = t.PnL
			}
		}
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
	if m.WinningTrades > 0 {
		m.AverageWin = grossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoss = -grossLoss / float64(m.LosingTrades)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case m.WinningTrades > 0:
		m.ProfitFactor = math.Inf(1)
	}

	if initialCapital > 0 {
		m.TotalReturn = m.TotalPnL / initialCapital
	}
	m.MaxDrawdown = maxDrawdown(trades, initialCapital)
	m.SharpeRatio = sharpe(trades, initialCapital)
	m.AnnualizedReturn = annualized(trades, m.TotalReturn)
	return m
}

// maxDrawdown walks the trade-by-trade equity curve, starting from the
// initial capital, and returns the largest peak-to-trough fall as a
// fraction of the peak.
func maxDrawdown(trades []Trade, initialCapital float64) float64 {
	equity := initialCapital
	peak := equity
	maxDD := 0.0
	for _, t := range trades {
		equity += t.PnL
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpe is the mean over standard deviation of per-trade equity step
// returns, annualized by sqrt(252). Fewer than two trades, or zero
// variance, yields 0.
func sharpe(trades []Trade, initialCapital float64) float64 {
	if len(trades) < 2 || initialCapital <= 0 {
		return 0
	}
	equity := initialCapital
	returns := make([]float64, 0, len(trades))
	for _, t := range trades {
		if equity <= 0 {
			return 0
		}
		returns = append(returns, t.PnL/equity)
		equity += t.PnL
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// annualized scales the total return by the span between the first
// entry and the last exit, expressed in trading days.
func annualized(trades []Trade, totalReturn float64) float64 {
	if len(trades) == 0 {
		return 0
	}
	span := trades[len(trades)-1].ExitTime.Sub(trades[0].EntryTime)
	tradingDays := span.Hours() / 24 / 365 * tradingDaysPerYear
	if tradingDays <= 0 {
		return 0
	}
	return math.Pow(1+totalReturn, tradingDaysPerYear/tradingDays) - 1
}
