package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

func validBar(minuteOffset int) types.OHLCV {
	return types.OHLCV{
		Timestamp: time.Date(2024, 3, 15, 8, minuteOffset, 0, 0, time.UTC),
		Open:      100, High: 101, Low: 99, Close: 100.5,
		Volume: 1000,
	}
}

// TestCleanSeries_PassesValidBars verifies clean input comes through
// unchanged.
func TestCleanSeries_PassesValidBars(t *testing.T) {
	bars := []types.OHLCV{validBar(0), validBar(1), validBar(2)}

	clean, excluded := CleanSeries(bars)

	assert.Len(t, clean, 3)
	assert.Empty(t, excluded)
}

// TestCleanSeries_DropsMalformedBars verifies each exclusion rule.
func TestCleanSeries_DropsMalformedBars(t *testing.T) {
	negative := validBar(1)
	negative.Close = -10

	highBelowLow := validBar(2)
	highBelowLow.High = 90

	zeroTime := validBar(3)
	zeroTime.Timestamp = time.Time{}

	duplicate := validBar(0)

	bars := []types.OHLCV{validBar(0), negative, highBelowLow, zeroTime, duplicate}
	clean, excluded := CleanSeries(bars)

	require.Len(t, clean, 1)
	require.Len(t, excluded, 4)
	assert.Equal(t, "inconsistent OHLCV values", excluded[0].Reason)
	assert.Equal(t, "zero timestamp", excluded[2].Reason)
	assert.Equal(t, "duplicate timestamp", excluded[3].Reason)
}

// TestCleanSeries_SortsAscending verifies out-of-order input is
// reordered by timestamp.
func TestCleanSeries_SortsAscending(t *testing.T) {
	bars := []types.OHLCV{validBar(5), validBar(1), validBar(3)}

	clean, _ := CleanSeries(bars)

	require.Len(t, clean, 3)
	assert.True(t, clean[0].Timestamp.Before(clean[1].Timestamp))
	assert.True(t, clean[1].Timestamp.Before(clean[2].Timestamp))
}

// TestGenerateSynthetic_Invariants verifies the generated series is
// structurally valid and deterministic per seed.
func TestGenerateSynthetic_Invariants(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	bars := GenerateSynthetic(500, cfg)

	require.Len(t, bars, 500)
	for i, bar := range bars {
		assert.True(t, bar.IsValid(), "bar %d should be valid", i)
		if i > 0 {
			assert.True(t, bars[i-1].Timestamp.Before(bar.Timestamp))
			assert.Equal(t, bars[i-1].Close, bar.Open)
		}
	}

	again := GenerateSynthetic(500, cfg)
	assert.Equal(t, bars, again)

	cfg.Seed = 7
	different := GenerateSynthetic(500, cfg)
	assert.NotEqual(t, bars, different)
}
