package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// SyntheticConfig parameterizes the random-walk candle generator.
type SyntheticConfig struct {
	StartPrice float64
	Volatility float64 // per-bar return standard deviation
	Drift      float64 // per-bar mean return
	BaseVolume float64
	Interval   time.Duration
	Start      time.Time
	Seed       int64
}

// DefaultSyntheticConfig produces one-minute bitcoin-like candles.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		StartPrice: 45000,
		Volatility: 0.002,
		BaseVolume: 100,
		Interval:   time.Minute,
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:       42,
	}
}

// GenerateSynthetic returns n random-walk candles. Each close follows a
// gaussian step from the previous close, with occasional short trend
// clusters to give the series realistic momentum runs. Volume expands
// with the size of the move.
func GenerateSynthetic(n int, cfg SyntheticConfig) []types.OHLCV {
	rng := rand.New(rand.NewSource(cfg.Seed))
	bars := make([]types.OHLCV, 0, n)

	price := cfg.StartPrice
	trendLeft := 0
	trendDrift := 0.0
	for i := 0; i < n; i++ {
		if trendLeft == 0 && rng.Float64() < 0.02 {
			// Start a trend cluster of 20 to 60 bars.
			trendLeft = 20 + rng.Intn(41)
			trendDrift = (rng.Float64() - 0.5) * 4 * cfg.Volatility
		}
		drift := cfg.Drift
		if trendLeft > 0 {
			drift += trendDrift
			trendLeft--
		}

		ret := drift + rng.NormFloat64()*cfg.Volatility
		open := price
		close := price * (1 + ret)

		spread := math.Abs(close-open) + price*cfg.Volatility*rng.Float64()
		high := math.Max(open, close) + spread*rng.Float64()*0.5
		low := math.Min(open, close) - spread*rng.Float64()*0.5
		if low <= 0 {
			low = math.Min(open, close) * 0.999
		}

		volume := cfg.BaseVolume * (1 + 10*math.Abs(ret)/cfg.Volatility*rng.Float64()*0.1)

		bars = append(bars, types.OHLCV{
			Timestamp: cfg.Start.Add(time.Duration(i) * cfg.Interval),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})
		price = close
	}
	return bars
}
