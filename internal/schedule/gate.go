package schedule

import "time"

// Mode selects how the gate restricts emission.
type Mode string

const (
	// ModeScheduled confines emission to configured UTC hour windows.
	ModeScheduled Mode = "scheduled"
	// ModeContinuous has no hour restriction but enforces a minimum
	// interval between signals and the consecutive-loss circuit breaker.
	ModeContinuous Mode = "continuous"
)

// Config holds the gate's tunable limits.
type Config struct {
	Mode             Mode
	MaxPerDay        int
	Windows          []HourWindow  // scheduled mode
	MinInterval      time.Duration // continuous mode
	BreakerThreshold int           // continuous mode, 0 disables
}

// Gate restricts signal emission to the configured schedule: at most
// MaxPerDay signals per UTC calendar day, inside the hour windows
// (scheduled mode) or at least MinInterval apart (continuous mode).
// All state is owned by one engine run; access is single-threaded.
type Gate struct {
	cfg Config

	dailyCount   int
	lastSignalAt time.Time
	currentDate  time.Time // UTC midnight of the day being counted

	breakerTripped bool
}

// NewGate creates a gate with zeroed counters.
func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

// Allow reports whether a signal may be emitted at now. It rolls the
// daily counter over on a UTC date change. consecutiveLosses is owned
// by the caller's engine state; in continuous mode the circuit breaker
// rejects emission while it is at or above the threshold.
func (g *Gate) Allow(now time.Time, consecutiveLosses int) bool {
	g.rollover(now)

	if g.cfg.MaxPerDay > 0 && g.dailyCount >= g.cfg.MaxPerDay {
		return false
	}

	switch g.cfg.Mode {
	case ModeContinuous:
		if g.cfg.BreakerThreshold > 0 && consecutiveLosses >= g.cfg.BreakerThreshold {
			return false
		}
		if !g.lastSignalAt.IsZero() && now.Sub(g.lastSignalAt) < g.cfg.MinInterval {
			return false
		}
	default:
		if len(g.cfg.Windows) > 0 && !anyContains(g.cfg.Windows, now.UTC().Hour()) {
			return false
		}
	}
	return true
}

// Record registers an emitted signal. Call only after the signal is
// actually emitted.
func (g *Gate) Record(now time.Time) {
	g.rollover(now)
	g.dailyCount++
	g.lastSignalAt = now
}

// BreakerActivated reports the circuit breaker's activation exactly
// once per activation: the first call at or above the threshold returns
// true, subsequent calls return false until the breaker resets (a win
// bringing losses under the threshold, or a new day).
func (g *Gate) BreakerActivated(consecutiveLosses int) bool {
	if g.cfg.BreakerThreshold <= 0 {
		return false
	}
	if consecutiveLosses >= g.cfg.BreakerThreshold {
		if !g.breakerTripped {
			g.breakerTripped = true
			return true
		}
		return false
	}
	g.breakerTripped = false
	return false
}

// DailyCount is the number of signals recorded for the current UTC day.
func (g *Gate) DailyCount() int {
	return g.dailyCount
}

// LastSignalAt is the time of the most recently recorded signal.
func (g *Gate) LastSignalAt() time.Time {
	return g.lastSignalAt
}

func (g *Gate) rollover(now time.Time) {
	date := now.UTC().Truncate(24 * time.Hour)
	if !date.Equal(g.currentDate) {
		g.currentDate = date
		g.dailyCount = 0
		g.breakerTripped = false
	}
}
