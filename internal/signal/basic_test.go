package signal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// makeFrame builds a frame with every indicator undefined, then lets
// the test set only the fields a condition reads.
func makeFrame(close float64) indicators.Frame {
	nan := math.NaN()
	return indicators.Frame{
		OHLCV: types.OHLCV{
			Timestamp: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    1000,
		},
		RSI: nan, RSIFast: nan,
		BBLower: nan, BBMiddle: nan, BBUpper: nan,
		StochK: nan, StochD: nan,
		ATR: nan,
		IchimokuConversion: nan, IchimokuBase: nan,
		IchimokuSpanA: nan, IchimokuSpanB: nan, IchimokuLagging: nan,
	}
}

// flatFrames builds n identical frames via the real indicator pipeline.
func flatFrames(t *testing.T, n int) []indicators.Frame {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, n)
	for i := range bars {
		bars[i] = types.OHLCV{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      100, High: 100.1, Low: 99.9, Close: 100,
			Volume: 1000,
		}
	}
	frames, err := indicators.AddAllIndicators(bars)
	require.NoError(t, err)
	return frames
}

// TestBasicRuleSet_BuyConditions verifies each buy condition fires on a
// crafted window.
func TestBasicRuleSet_BuyConditions(t *testing.T) {
	rules := NewBasicRuleSet()

	prev := makeFrame(100)
	prev.RSI = 30
	prev.MACD = -1
	prev.StochK = 20

	latest := makeFrame(99)
	latest.RSI = 35       // oversold and rising
	latest.BBLower = 99.5 // close below the band
	latest.BBUpper = 105
	latest.MACD = -0.5 // rising
	latest.StochK = 25 // oversold and rising
	latest.StochD = 30
	latest.Volume = 5000 // but the 10-bar mean is undefined with 2 frames

	res, err := rules.Evaluate([]indicators.Frame{prev, latest}, Buy)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Score)
	assert.Equal(t, 5, res.MaxScore)
	assert.Contains(t, res.Conditions, "RSI oversold and rising")
	assert.Contains(t, res.Conditions, "price at lower Bollinger band")
	assert.Contains(t, res.Conditions, "MACD rising")
	assert.Contains(t, res.Conditions, "stochastic oversold and rising")
}

// TestBasicRuleSet_SellMirror verifies the sell conditions are the
// exact mirror of the buy conditions.
func TestBasicRuleSet_SellMirror(t *testing.T) {
	rules := NewBasicRuleSet()

	prev := makeFrame(100)
	prev.RSI = 70
	prev.MACD = 1
	prev.StochK = 80

	latest := makeFrame(101)
	latest.RSI = 65
	latest.BBLower = 95
	latest.BBUpper = 100.5
	latest.MACD = 0.5
	latest.StochK = 75
	latest.StochD = 70

	sell, err := rules.Evaluate([]indicators.Frame{prev, latest}, Sell)
	require.NoError(t, err)
	buy, err := rules.Evaluate([]indicators.Frame{prev, latest}, Buy)
	require.NoError(t, err)

	assert.Equal(t, 4, sell.Score)
	assert.Equal(t, 0, buy.Score)
}

// TestBasicRuleSet_UndefinedIndicatorsNeverScore verifies NaN
// comparisons are skipped rather than counted.
func TestBasicRuleSet_UndefinedIndicatorsNeverScore(t *testing.T) {
	rules := NewBasicRuleSet()

	prev := makeFrame(100)
	latest := makeFrame(1) // extreme price, all indicators NaN
	latest.MACD = math.NaN()
	prev.MACD = math.NaN()

	res, err := rules.Evaluate([]indicators.Frame{prev, latest}, Buy)
	require.NoError(t, err)

	// The MACD comparison is NaN > NaN which is false, and every
	// guarded condition is skipped.
	assert.Equal(t, 0, res.Score)
}

// TestBasicRuleSet_InsufficientHistory verifies the two-bar minimum.
func TestBasicRuleSet_InsufficientHistory(t *testing.T) {
	rules := NewBasicRuleSet()

	_, err := rules.Evaluate([]indicators.Frame{makeFrame(100)}, Buy)

	assert.Error(t, err)
}

// TestBasicRuleSet_VolumeCondition verifies the 10-bar volume mean
// comparison.
func TestBasicRuleSet_VolumeCondition(t *testing.T) {
	rules := NewBasicRuleSet()

	frames := make([]indicators.Frame, 12)
	for i := range frames {
		frames[i] = makeFrame(100)
	}
	frames[11].Volume = 2000

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)

	assert.Contains(t, res.Conditions, "volume above average")
}
