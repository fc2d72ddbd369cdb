package indicators

import (
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// FibRatios are the seven standard retracement ratios.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// FibLevel is one retracement level between the window's low and high.
type FibLevel struct {
	Ratio float64
	Price float64
}

// FibonacciRetracement interpolates the standard retracement levels
// between the minimum low and maximum high of the trailing window ending
// at the last bar.
func FibonacciRetracement(data []types.OHLCV, window int) ([]FibLevel, error) {
	if len(data) < window {
		return nil, errors.NewInsufficientHistory(window, len(data))
	}
	high := data[len(data)-window].High
	low := data[len(data)-window].Low
	for _, bar := range data[len(data)-window:] {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
	}

	diff := high - low
	levels := make([]FibLevel, len(FibRatios))
	for i, ratio := range FibRatios {
		levels[i] = FibLevel{Ratio: ratio, Price: low + ratio*diff}
	}
	return levels, nil
}

// NearFibLevel reports whether the price is within tolerance (as a
// fraction of price) of any retracement level.
func NearFibLevel(levels []FibLevel, price, tolerance float64) bool {
	if price <= 0 {
		return false
	}
	for _, lvl := range levels {
		diff := price - lvl.Price
		if diff < 0 {
			diff = -diff
		}
		if diff/price < tolerance {
			return true
		}
	}
	return false
}
