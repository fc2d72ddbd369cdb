package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// scalpingFrames builds a 100-frame window of neutral frames for
// condition crafting.
func scalpingFrames() []indicators.Frame {
	frames := make([]indicators.Frame, 100)
	for i := range frames {
		frames[i] = makeFrame(100)
	}
	return frames
}

// TestScalpingRuleSet_MinHistory verifies the 100-bar window guard.
func TestScalpingRuleSet_MinHistory(t *testing.T) {
	rules := NewScalpingRuleSet()

	short := make([]indicators.Frame, 50)
	for i := range short {
		short[i] = makeFrame(100)
	}
	_, err := rules.Evaluate(short, Buy)

	assert.Error(t, err)
}

// TestScalpingRuleSet_RSIReversal verifies the slope condition fires
// only with an extreme level and a turning slope.
func TestScalpingRuleSet_RSIReversal(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()

	frames[97].RSI = 25
	frames[99].RSI = 30 // slope (30-25)/2 = 2.5 > 0.5

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "RSI reversal from oversold")

	// Level above the threshold does not fire even with the slope.
	frames[97].RSI = 40
	frames[99].RSI = 45
	res, err = rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "RSI reversal from oversold")
}

// TestScalpingRuleSet_RSIExhaustion verifies the sell-side slope
// condition.
func TestScalpingRuleSet_RSIExhaustion(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()

	frames[97].RSI = 80
	frames[99].RSI = 75 // slope -2.5 < -0.5

	res, err := rules.Evaluate(frames, Sell)
	require.NoError(t, err)

	assert.Contains(t, res.Conditions, "RSI exhaustion from overbought")
}

// TestScalpingRuleSet_MACDMomentumShift verifies the histogram
// contraction condition.
func TestScalpingRuleSet_MACDMomentumShift(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()

	frames[98].MACDHist = -2
	frames[99].MACDHist = -1 // rising, still negative, shrinking magnitude

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "MACD momentum shift")

	// A widening negative histogram does not fire.
	frames[98].MACDHist = -1
	frames[99].MACDHist = -3
	res, err = rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "MACD momentum shift")
}

// TestScalpingRuleSet_StochasticCrossover verifies the crossover must
// happen inside the extreme zone.
func TestScalpingRuleSet_StochasticCrossover(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()

	frames[98].StochK = 10
	frames[98].StochD = 12
	frames[99].StochK = 15
	frames[99].StochD = 13

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "stochastic oversold crossover")

	// Same crossover in the neutral zone does not fire.
	frames[98].StochK = 40
	frames[98].StochD = 42
	frames[99].StochK = 45
	frames[99].StochD = 43
	res, err = rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "stochastic oversold crossover")
}

// TestScalpingRuleSet_HammerPattern verifies the reversal candle
// conditions on both sides.
func TestScalpingRuleSet_HammerPattern(t *testing.T) {
	rules := NewScalpingRuleSet()

	frames := scalpingFrames()
	last := &frames[99]
	last.Open = 100
	last.Close = 100.5
	last.High = 100.6
	last.Low = 98 // lower wick 2.0 > 2 x body 0.5

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "bullish hammer pattern")

	last.Open = 100.5
	last.Close = 100
	last.High = 102.5 // upper wick 2.0 > 2 x body 0.5
	last.Low = 99.9

	res, err = rules.Evaluate(frames, Sell)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "bearish shooting star pattern")
}

// TestScalpingRuleSet_VolumeSpike verifies the spike needs price
// confirmation in the signal direction.
func TestScalpingRuleSet_VolumeSpike(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()

	frames[99].Volume = 5000
	frames[97].Close = 99
	frames[99].Close = 100 // above the close three bars back

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "volume spike with price support")

	res, err = rules.Evaluate(frames, Sell)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "high volume selling pressure")
}

// TestScalpingRuleSet_QualifyScore verifies the four-point threshold.
func TestScalpingRuleSet_QualifyScore(t *testing.T) {
	rules := NewScalpingRuleSet()

	assert.Equal(t, 4, rules.QualifyScore())
	assert.Equal(t, 7, rules.MaxScore())
	assert.Equal(t, indicators.MinHistoryBars, rules.MinHistory())
}

// TestScalpingRuleSet_SupportBounceLookback verifies the support level
// comes from the configured rolling lookback: a lookback longer than
// the window leaves no levels to bounce from.
func TestScalpingRuleSet_SupportBounceLookback(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()
	frames[99].Open = 99.8 // bullish close at the rolling support

	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "support bounce at 100.00")

	rules.LevelLookback = len(frames) + 1
	res, err = rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "support bounce at 100.00")
}

// TestScalpingRuleSet_SqueezeBandWidthPeriod verifies the squeeze
// baseline averages over the configured band-width period.
func TestScalpingRuleSet_SqueezeBandWidthPeriod(t *testing.T) {
	rules := NewScalpingRuleSet()
	frames := scalpingFrames()
	for i := 80; i <= 97; i++ {
		frames[i].BBLower = 95
		frames[i].BBUpper = 105
	}
	frames[98] = makeFrame(94)
	frames[98].BBLower = 99.9
	frames[98].BBUpper = 100.1
	frames[99].BBLower = 99.9
	frames[99].BBUpper = 100.1

	// Against the 20-bar baseline of wide bands the latest width is a
	// squeeze.
	res, err := rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.Contains(t, res.Conditions, "Bollinger band squeeze bounce")

	// Averaging only the two narrow bars removes the contrast.
	rules.BandWidthPeriod = 2
	res, err = rules.Evaluate(frames, Buy)
	require.NoError(t, err)
	assert.NotContains(t, res.Conditions, "Bollinger band squeeze bounce")
}
