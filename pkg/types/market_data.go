package types

import "time"

// OHLCV is a single open/high/low/close/volume bar at minute resolution.
// Bars are immutable once produced; series are ordered by strictly
// increasing timestamp.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// IsValid reports whether the bar satisfies the OHLC invariants:
// positive prices, non-negative volume, low <= min(open, close) and
// high >= max(open, close).
func (b OHLCV) IsValid() bool {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return false
	}
	if b.Volume < 0 {
		return false
	}
	if b.Low > b.Open || b.Low > b.Close {
		return false
	}
	if b.High < b.Open || b.High < b.Close {
		return false
	}
	return true
}

// Ticker is the latest traded price for a symbol.
type Ticker struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}
