package bot

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/config"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/schedule"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
)

func newTestBot(t *testing.T, mode string, breakerThreshold int) *Bot {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.Mode = mode
	cfg.Schedule.BreakerThreshold = breakerThreshold
	return &Bot{
		cfg:  cfg,
		gate: schedule.NewGate(cfg.GateConfig()),
		log:  zerolog.Nop(),
	}
}

func pendingBuy(entry float64, expiry time.Time) pendingSignal {
	return pendingSignal{sig: &signal.Signal{
		Direction:  signal.Buy,
		EntryPrice: entry,
		Expiry:     expiry,
	}}
}

// TestBot_BreakerReleasesOnDayRollover verifies a loss streak that
// trips the circuit breaker stops blocking emission once the UTC date
// changes, and that the rollover does not re-fire the alert.
func TestBot_BreakerReleasesOnDayRollover(t *testing.T) {
	b := newTestBot(t, string(schedule.ModeContinuous), 3)
	day1 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	b.rolloverDay(day1)
	for i := 0; i < 3; i++ {
		b.pending = append(b.pending, pendingBuy(100, day1))
	}
	b.resolveExpired(day1, 90)

	require.Equal(t, 3, b.consecutiveLosses)
	assert.True(t, b.breakerAlert(b.consecutiveLosses))
	assert.False(t, b.gate.Allow(day1, b.consecutiveLosses))

	day2 := day1.Add(24 * time.Hour)
	b.rolloverDay(day2)

	assert.Equal(t, 0, b.consecutiveLosses)
	assert.True(t, b.gate.Allow(day2, b.consecutiveLosses))
	assert.False(t, b.breakerAlert(b.consecutiveLosses))
}

// TestBot_WinResetsLossStreak verifies a winning resolution clears the
// consecutive-loss counter and re-arms the breaker alert.
func TestBot_WinResetsLossStreak(t *testing.T) {
	b := newTestBot(t, string(schedule.ModeContinuous), 3)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	b.rolloverDay(now)
	for i := 0; i < 3; i++ {
		b.pending = append(b.pending, pendingBuy(100, now))
	}
	b.resolveExpired(now, 90)
	require.True(t, b.breakerAlert(b.consecutiveLosses))

	b.pending = append(b.pending, pendingBuy(100, now))
	b.resolveExpired(now, 110)

	assert.Equal(t, 0, b.consecutiveLosses)
	assert.True(t, b.gate.Allow(now, b.consecutiveLosses))
	assert.False(t, b.breakerAlert(b.consecutiveLosses))
}

// TestBot_BreakerAlertOnlyInContinuousMode verifies a scheduled bot
// never sends the pause alert, since the breaker does not gate its
// emission, while a continuous bot alerts exactly once per activation.
func TestBot_BreakerAlertOnlyInContinuousMode(t *testing.T) {
	scheduled := newTestBot(t, string(schedule.ModeScheduled), 3)
	assert.False(t, scheduled.breakerAlert(3))

	continuous := newTestBot(t, string(schedule.ModeContinuous), 3)
	assert.True(t, continuous.breakerAlert(3))
	assert.False(t, continuous.breakerAlert(3))
}
