package backtest

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/schedule"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/data"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// Config holds the simulation parameters.
type Config struct {
	InitialCapital float64
	// HoldingPeriod is how long a position is held before its close is
	// taken at the next bar at or past the deadline. The same value
	// bounds a live signal's validity.
	HoldingPeriod time.Duration
	WarmupBars    int
	Gate          schedule.Config
}

// Trade is one completed round trip.
type Trade struct {
	Direction  signal.Direction `json:"direction"`
	EntryTime  time.Time        `json:"entry_time"`
	EntryPrice float64          `json:"entry_price"`
	ExitTime   time.Time        `json:"exit_time"`
	ExitPrice  float64          `json:"exit_price"`
	Size       float64          `json:"size"`
	PnL        float64          `json:"pnl"`
	PnLPercent float64          `json:"pnl_percent"`
	Quality    string           `json:"quality"`
	Score      string           `json:"score"`
}

// SimulatedPosition is the open position while the engine is in it.
type SimulatedPosition struct {
	Direction  signal.Direction
	EntryTime  time.Time
	EntryPrice float64
	Size       float64 // notional in capital currency
	Quality    string
	Score      string
	CloseAt    time.Time
}

// Snapshot is one equity-curve point, taken at every bar past warmup.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	Capital   float64   `json:"capital"`
	Position  bool      `json:"position"`
}

// Result is the full output of a simulation run.
type Result struct {
	Trades             []Trade
	Snapshots          []Snapshot
	ExcludedBars       []errors.InvalidBarError
	BreakerActivations int
	FinalCapital       float64
	Metrics            PerformanceMetrics
	HourBreakdown      []BucketStats
	DayBreakdown       []BucketStats
}

// Engine replays a candle series through the scorer and schedule gate,
// holding at most one position at a time.
type Engine struct {
	cfg    Config
	scorer *signal.Scorer
	log    zerolog.Logger
}

// NewEngine builds a simulation engine around a scorer.
func NewEngine(cfg Config, scorer *signal.Scorer, log zerolog.Logger) *Engine {
	if cfg.WarmupBars <= 0 {
		cfg.WarmupBars = indicators.MinHistoryBars
	}
	return &Engine{cfg: cfg, scorer: scorer, log: log}
}

// Run simulates the series. Malformed bars are excluded up front and
// reported in the result; any position still open at the end of the
// series is closed at the final bar's close.
func (e *Engine) Run(bars []types.OHLCV) (*Result, error) {
	clean, excluded := data.CleanSeries(bars)
	res := &Result{ExcludedBars: excluded, FinalCapital: e.cfg.InitialCapital}
	if len(excluded) > 0 {
		e.log.Warn().Int("excluded", len(excluded)).Msg("malformed bars dropped from series")
	}

	frames, err := indicators.AddAllIndicators(clean)
	if err != nil {
		return nil, err
	}

	gate := schedule.NewGate(e.cfg.Gate)
	capital := e.cfg.InitialCapital
	var pos *SimulatedPosition
	consecutiveLosses := 0
	var currentDate time.Time

	for i := e.cfg.WarmupBars; i < len(frames); i++ {
		bar := frames[i]
		now := bar.Timestamp

		date := now.UTC().Truncate(24 * time.Hour)
		if !date.Equal(currentDate) {
			currentDate = date
			consecutiveLosses = 0
		}

		if pos != nil && !now.Before(pos.CloseAt) {
			trade := closePosition(pos, bar.Close, now)
			capital += trade.PnL
			res.Trades = append(res.Trades, trade)
			if trade.PnL < 0 {
				consecutiveLosses++
			} else {
				consecutiveLosses = 0
			}
			pos = nil
			if gate.BreakerActivated(consecutiveLosses) {
				res.BreakerActivations++
				e.log.Warn().Int("losses", consecutiveLosses).Time("at", now).
					Msg("circuit breaker tripped")
			}
		} else if pos == nil && gate.Allow(now, consecutiveLosses) {
			sig, err := e.scorer.Evaluate(frames[:i+1], now)
			if err != nil && !errors.IsInsufficientHistory(err) {
				return nil, err
			}
			// A warmup shorter than the rule set's lookback leaves the
			// early bars unscorable; they pass through without a trade.
			if sig != nil {
				gate.Record(now)
				pos = &SimulatedPosition{
					Direction:  sig.Direction,
					EntryTime:  now,
					EntryPrice: sig.EntryPrice,
					Size:       capital * sig.PositionSize,
					Quality:    sig.Quality,
					Score:      sig.Score,
					CloseAt:    now.Add(e.cfg.HoldingPeriod),
				}
				e.log.Debug().Str("direction", string(sig.Direction)).
					Float64("entry", sig.EntryPrice).Str("score", sig.Score).
					Time("at", now).Msg("position opened")
			}
		}

		res.Snapshots = append(res.Snapshots, Snapshot{
			Timestamp: now,
			Close:     bar.Close,
			Capital:   capital,
			Position:  pos != nil,
		})
	}

	if pos != nil && len(frames) > 0 {
		last := frames[len(frames)-1]
		trade := closePosition(pos, last.Close, last.Timestamp)
		capital += trade.PnL
		res.Trades = append(res.Trades, trade)
	}

	res.FinalCapital = capital
	res.Metrics = Analyze(res.Trades, e.cfg.InitialCapital)
	res.HourBreakdown = BreakdownByHour(res.Trades)
	res.DayBreakdown = BreakdownByWeekday(res.Trades)
	return res, nil
}

func closePosition(pos *SimulatedPosition, exitPrice float64, exitTime time.Time) Trade {
	move := (exitPrice - pos.EntryPrice) / pos.EntryPrice
	if pos.Direction == signal.Sell {
		move = -move
	}
	return Trade{
		Direction:  pos.Direction,
		EntryTime:  pos.EntryTime,
		EntryPrice: pos.EntryPrice,
		ExitTime:   exitTime,
		ExitPrice:  exitPrice,
		Size:       pos.Size,
		PnL:        move * pos.Size,
		PnLPercent: move,
		Quality:    pos.Quality,
		Score:      pos.Score,
	}
}
