package backtest

import "time"

// BucketStats aggregates trades that share an entry-time bucket, such
// as an hour of day or a day of week.
type BucketStats struct {
	Label      string  `json:"label"`
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	TotalPnL   float64 `json:"total_pnl"`
	AveragePnL float64 `json:"average_pnl"`
}

// BreakdownByHour groups trades by the UTC hour they were entered.
// Only hours with at least one trade appear, in hour order.
func BreakdownByHour(trades []Trade) []BucketStats {
	labels := make([]string, 24)
	for h := 0; h < 24; h++ {
		labels[h] = time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("15:00")
	}
	return breakdown(trades, labels, func(t Trade) int {
		return t.EntryTime.UTC().Hour()
	})
}

// BreakdownByWeekday groups trades by the UTC weekday they were
// entered, Sunday first.
func BreakdownByWeekday(trades []Trade) []BucketStats {
	labels := make([]string, 7)
	for d := 0; d < 7; d++ {
		labels[d] = time.Weekday(d).String()
	}
	return breakdown(trades, labels, func(t Trade) int {
		return int(t.EntryTime.UTC().Weekday())
	})
}

func breakdown(trades []Trade, labels []string, bucket func(Trade) int) []BucketStats {
	stats := make([]BucketStats, len(labels))
	for i, label := range labels {
		stats[i].Label = label
	}
	for _, t := range trades {
		b := &stats[bucket(t)]
		b.Trades++
		if t.PnL > 0 {
			b.Wins++
		}
		b.TotalPnL += t.PnL
	}

	var out []BucketStats
	for _, b := range stats {
		if b.Trades == 0 {
			continue
		}
		b.WinRate = float64(b.Wins) / float64(b.Trades)
		b.AveragePnL = b.TotalPnL / float64(b.Trades)
		out = append(out, b)
	}
	return out
}
