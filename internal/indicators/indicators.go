package indicators

import (
	"math"

	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// Default periods for the indicator set.
const (
	DefaultRSIPeriod     = 14
	FastRSIPeriod        = 5
	DefaultBBPeriod      = 20
	DefaultBBStdDev      = 2.0
	DefaultMACDFast      = 12
	DefaultMACDSlow      = 26
	DefaultMACDSignal    = 9
	DefaultStochKPeriod  = 14
	DefaultStochDPeriod  = 3
	DefaultATRPeriod     = 14
	DefaultFibWindow     = 100
)

// Undefined is the value of an indicator inside its warmup region.
func Undefined() float64 {
	return math.NaN()
}

// Defined reports whether an indicator value is outside the warmup region.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// RSI computes the Relative Strength Index over a simple rolling mean of
// gains and losses. The first `period` entries are undefined (the price
// delta consumes one bar). When the average loss is exactly zero the
// value is 100 by convention, so a flat or monotonically rising window
// never produces NaN downstream.
func RSI(data []types.OHLCV, period int) []float64 {
	out := undefinedSeries(len(data))
	if len(data) < period+1 {
		return out
	}
	for i := period; i < len(data); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			delta := data[j].Close - data[j-1].Close
			if delta > 0 {
				gain += delta
			} else {
				loss -= delta
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// BollingerBands computes the middle band (SMA of close) and the
// upper/lower bands at ±stdDev sample standard deviations.
// The first period-1 entries of each series are undefined.
func BollingerBands(data []types.OHLCV, period int, stdDev float64) (middle, upper, lower []float64) {
	middle = undefinedSeries(len(data))
	upper = undefinedSeries(len(data))
	lower = undefinedSeries(len(data))
	if len(data) < period {
		return middle, upper, lower
	}
	for i := period - 1; i < len(data); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += data[j].Close
		}
		mean := sum / float64(period)

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := data[j].Close - mean
			variance += d * d
		}
		// Sample standard deviation, matching rolling-std conventions.
		sd := math.Sqrt(variance / float64(period-1))

		middle[i] = mean
		upper[i] = mean + stdDev*sd
		lower[i] = mean - stdDev*sd
	}
	return middle, upper, lower
}

// MACD computes the MACD line, signal line, and histogram from fast and
// slow EMAs of the close. EMAs use the standard recursive smoothing with
// alpha = 2/(period+1), seeded by the first value, so every entry is
// defined from index zero.
func MACD(data []types.OHLCV, fast, slow, signal int) (macd, signalLine, histogram []float64) {
	closes := make([]float64, len(data))
	for i, bar := range data {
		closes[i] = bar.Close
	}

	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)

	macd = make([]float64, len(data))
	for i := range macd {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine = ema(macd, signal)

	histogram = make([]float64, len(data))
	for i := range histogram {
		histogram[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, histogram
}

// ema applies recursive exponential smoothing seeded by the first value.
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}

// Stochastic computes the %K and %D lines of the stochastic oscillator.
// %K compares the close to its rolling high-low range; a flat range
// (division by zero) resolves to 50 instead of propagating NaN.
// %D is the SMA of %K over dPeriod.
func Stochastic(data []types.OHLCV, kPeriod, dPeriod int) (stochK, stochD []float64) {
	stochK = undefinedSeries(len(data))
	stochD = undefinedSeries(len(data))
	if len(data) < kPeriod {
		return stochK, stochD
	}
	for i := kPeriod - 1; i < len(data); i++ {
		lowMin := math.Inf(1)
		highMax := math.Inf(-1)
		for j := i - kPeriod + 1; j <= i; j++ {
			lowMin = math.Min(lowMin, data[j].Low)
			highMax = math.Max(highMax, data[j].High)
		}
		if highMax == lowMin {
			stochK[i] = 50
			continue
		}
		stochK[i] = 100 * (data[i].Close - lowMin) / (highMax - lowMin)
	}
	for i := kPeriod + dPeriod - 2; i < len(data); i++ {
		var sum float64
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += stochK[j]
		}
		stochD[i] = sum / float64(dPeriod)
	}
	return stochK, stochD
}

// ATR computes the Average True Range as a rolling mean of the true
// range. The first bar's true range is its high-low span (no previous
// close exists); entries before index period-1 are undefined.
func ATR(data []types.OHLCV, period int) []float64 {
	out := undefinedSeries(len(data))
	if len(data) < period {
		return out
	}
	tr := make([]float64, len(data))
	for i, bar := range data {
		if i == 0 {
			tr[i] = bar.High - bar.Low
			continue
		}
		prevClose := data[i-1].Close
		tr[i] = math.Max(bar.High-bar.Low,
			math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
	}
	for i := period - 1; i < len(data); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// undefinedSeries returns a slice of the given length filled with NaN.
func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
