package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// TestScorer_EmitsQualifiedBuy verifies a winning buy side produces a
// fully populated signal.
func TestScorer_EmitsQualifiedBuy(t *testing.T) {
	scorer, err := NewDefaultScorer(RuleSetBasic, time.Minute)
	require.NoError(t, err)

	prev := makeFrame(100)
	prev.RSI = 30
	prev.MACD = -1
	prev.StochK = 20

	latest := makeFrame(99)
	latest.RSI = 35
	latest.BBLower = 99.5
	latest.BBUpper = 105
	latest.MACD = -0.5
	latest.StochK = 25
	latest.StochD = 30
	latest.ATR = 2

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	sig, err := scorer.Evaluate([]indicators.Frame{prev, latest}, now)
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, Buy, sig.Direction)
	assert.Equal(t, 99.0, sig.EntryPrice)
	assert.InDelta(t, 99.0-1.5*2, sig.StopLoss, 1e-9) // entry minus 1.5 ATR
	assert.InDelta(t, 99.0*1.01, sig.TakeProfit, 1e-9)
	assert.Equal(t, "Strong", sig.Quality)
	assert.Equal(t, 0.02, sig.PositionSize)
	assert.Equal(t, "4/5", sig.Score)
	assert.Equal(t, now.Add(time.Minute), sig.Expiry)
	assert.Len(t, sig.Conditions, 4)
}

// TestScorer_TieProducesNoSignal verifies equal scores on both sides
// yield nil.
func TestScorer_TieProducesNoSignal(t *testing.T) {
	scorer, err := NewDefaultScorer(RuleSetBasic, time.Minute)
	require.NoError(t, err)

	// Flat frames through the real pipeline: both sides touch their
	// band on a zero-width channel and tie at one point each.
	frames := flatFrames(t, 120)

	sig, err := scorer.Evaluate(frames, time.Now().UTC())
	require.NoError(t, err)

	assert.Nil(t, sig)
}

// TestScorer_FlatSeriesScalpingNoSignal verifies the scalping rules
// stay silent on a flat series.
func TestScorer_FlatSeriesScalpingNoSignal(t *testing.T) {
	scorer, err := NewDefaultScorer(RuleSetScalping, time.Minute)
	require.NoError(t, err)

	sig, err := scorer.Evaluate(flatFrames(t, 120), time.Now().UTC())
	require.NoError(t, err)

	assert.Nil(t, sig)
}

// TestScorer_BelowQualifyNoSignal verifies a single met condition does
// not clear the basic threshold.
func TestScorer_BelowQualifyNoSignal(t *testing.T) {
	scorer, err := NewDefaultScorer(RuleSetBasic, time.Minute)
	require.NoError(t, err)

	prev := makeFrame(100)
	prev.MACD = -1
	latest := makeFrame(100)
	latest.MACD = -0.5 // MACD rising only

	sig, err := scorer.Evaluate([]indicators.Frame{prev, latest}, time.Now().UTC())
	require.NoError(t, err)

	assert.Nil(t, sig)
}

// TestScorer_ScalpingStopIsFixedPercent verifies the scalping risk
// policy uses the fixed half-percent stop.
func TestScorer_ScalpingStopIsFixedPercent(t *testing.T) {
	policy := DefaultRiskPolicy(RuleSetScalping)

	latest := makeFrame(200)
	stop, target := policy.Levels(latest, Sell)

	assert.InDelta(t, 200*1.005, stop, 1e-9)
	assert.InDelta(t, 200*0.99, target, 1e-9)
}

// TestRiskPolicy_ATRFallback verifies the percent stop applies when the
// ATR is undefined.
func TestRiskPolicy_ATRFallback(t *testing.T) {
	policy := RiskPolicy{UseATRStop: true, ATRStopMultiple: 1.5, StopPercent: 0.01, TargetPercent: 0.01}

	latest := makeFrame(100) // ATR is NaN
	stop, _ := policy.Levels(latest, Buy)

	assert.InDelta(t, 99.0, stop, 1e-9)
}

// TestQualityMap_Resolve verifies band resolution for both rule sets.
func TestQualityMap_Resolve(t *testing.T) {
	basic := DefaultQualityMap(RuleSetBasic)
	assert.Equal(t, "Strong", basic.Resolve(5).Label)
	assert.Equal(t, "Strong", basic.Resolve(4).Label)
	assert.Equal(t, "Moderate", basic.Resolve(3).Label)

	scalping := DefaultQualityMap(RuleSetScalping)
	assert.Equal(t, "VERY STRONG", scalping.Resolve(7).Label)
	assert.Equal(t, "STRONG", scalping.Resolve(5).Label)
	assert.Equal(t, "MODERATE", scalping.Resolve(4).Label)
	assert.Equal(t, 0.01, scalping.Resolve(4).PositionSize)
}

// TestSignal_JSONRoundTrip verifies a signal survives serialization.
func TestSignal_JSONRoundTrip(t *testing.T) {
	original := Signal{
		Direction:    Sell,
		Timestamp:    time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		EntryPrice:   45000,
		StopLoss:     45225,
		TakeProfit:   44550,
		PositionSize: 0.02,
		Expiry:       time.Date(2024, 3, 15, 9, 1, 0, 0, time.UTC),
		Quality:      "STRONG",
		Score:        "5/7",
		Conditions:   []string{"RSI exhaustion from overbought"},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Signal
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

// TestNewRuleSet_UnknownName verifies the factory rejects unknown
// names.
func TestNewRuleSet_UnknownName(t *testing.T) {
	_, err := NewRuleSet("swing")

	assert.Error(t, err)
}
