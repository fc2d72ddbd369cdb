package bot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/config"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/notify"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/schedule"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/data"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/reporting"
)

const fetchTimeout = 30 * time.Second

// pendingSignal is an emitted signal awaiting resolution at expiry.
type pendingSignal struct {
	sig *signal.Signal
}

// Status is the snapshot served on /status.
type Status struct {
	Symbol            string         `json:"symbol"`
	RuleSet           string         `json:"rule_set"`
	Running           bool           `json:"running"`
	LastCycleAt       time.Time      `json:"last_cycle_at"`
	LastClose         float64        `json:"last_close"`
	DailySignals      int            `json:"daily_signals"`
	ConsecutiveLosses int            `json:"consecutive_losses"`
	PendingSignals    int            `json:"pending_signals"`
	LastSignal        *signal.Signal `json:"last_signal,omitempty"`
}

// Bot runs the live polling loop: fetch candles, evaluate, gate, emit.
// A fetch or notify failure is contained to its cycle; only
// configuration errors abort the run.
type Bot struct {
	cfg      *config.Config
	provider data.Provider
	scorer   *signal.Scorer
	gate     *schedule.Gate
	store    *reporting.SignalStore
	notifier notify.Notifier
	log      zerolog.Logger

	mu                sync.Mutex
	status            Status
	pending           []pendingSignal
	consecutiveLosses int
	currentDate       time.Time
}

// New wires a bot from its collaborators. store and notifier may be
// nil to disable persistence or alerting.
func New(cfg *config.Config, provider data.Provider, scorer *signal.Scorer,
	store *reporting.SignalStore, notifier notify.Notifier, log zerolog.Logger) *Bot {
	return &Bot{
		cfg:      cfg,
		provider: provider,
		scorer:   scorer,
		gate:     schedule.NewGate(cfg.GateConfig()),
		store:    store,
		notifier: notifier,
		log:      log,
		status: Status{
			Symbol:  cfg.Symbol,
			RuleSet: cfg.RuleSet,
		},
	}
}

// Status returns a copy of the current status snapshot.
func (b *Bot) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.status
	s.DailySignals = b.gate.DailyCount()
	s.ConsecutiveLosses = b.consecutiveLosses
	s.PendingSignals = len(b.pending)
	return s
}

// Run polls on the configured interval until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().
		Str("symbol", b.cfg.Symbol).
		Str("rule_set", b.cfg.RuleSet).
		Dur("poll_interval", b.cfg.PollInterval.Duration).
		Msg("signal bot started")

	b.mu.Lock()
	b.status.Running = true
	b.mu.Unlock()

	ticker := time.NewTicker(b.cfg.PollInterval.Duration)
	defer ticker.Stop()

	b.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			b.status.Running = false
			b.mu.Unlock()
			b.log.Info().Msg("signal bot stopped")
			return ctx.Err()
		case <-ticker.C:
			b.cycle(ctx)
		}
	}
}

// cycle runs one fetch-evaluate-emit pass. Errors are logged and
// dropped so one bad cycle never kills the loop.
func (b *Bot) cycle(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	bars, err := b.provider.GetKlines(fetchCtx, b.cfg.Symbol, b.cfg.Interval, b.cfg.FetchLimit)
	if err != nil {
		fetchErrors.Inc()
		b.log.Error().Err(err).Msg("market fetch failed")
		return
	}

	clean, excluded := data.CleanSeries(bars)
	if len(excluded) > 0 {
		b.log.Warn().Int("excluded", len(excluded)).Msg("malformed bars dropped")
	}

	frames, err := indicators.AddAllIndicators(clean)
	if err != nil {
		if errors.IsInsufficientHistory(err) {
			b.log.Warn().Err(err).Msg("not enough history yet")
			return
		}
		b.log.Error().Err(err).Msg("indicator computation failed")
		return
	}

	now := time.Now().UTC()
	latest := frames[len(frames)-1]
	lastClose.Set(latest.Close)

	b.rolloverDay(now)
	b.resolveExpired(now, latest.Close)

	b.mu.Lock()
	b.status.LastCycleAt = now
	b.status.LastClose = latest.Close
	losses := b.consecutiveLosses
	b.mu.Unlock()

	if b.breakerAlert(losses) {
		breakerTrips.Inc()
		b.log.Warn().Int("losses", losses).Msg("circuit breaker tripped")
		b.notifyText(notify.FormatBreakerAlert(losses))
	}
	if !b.gate.Allow(now, losses) {
		return
	}

	sig, err := b.scorer.Evaluate(frames, now)
	evaluationsTotal.Inc()
	if err != nil {
		b.log.Error().Err(err).Msg("evaluation failed")
		return
	}
	if sig == nil {
		return
	}

	b.emit(sig)
}

func (b *Bot) emit(sig *signal.Signal) {
	b.gate.Record(sig.Timestamp)
	signalsEmitted.WithLabelValues(string(sig.Direction), sig.Quality).Inc()

	b.log.Info().
		Str("direction", string(sig.Direction)).
		Str("quality", sig.Quality).
		Str("score", sig.Score).
		Float64("entry", sig.EntryPrice).
		Float64("stop", sig.StopLoss).
		Float64("target", sig.TakeProfit).
		Msg("signal emitted")

	b.mu.Lock()
	b.status.LastSignal = sig
	b.pending = append(b.pending, pendingSignal{sig: sig})
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Append(sig); err != nil {
			b.log.Error().Err(err).Msg("signal log append failed")
		}
	}
	if b.notifier != nil {
		if err := b.notifier.NotifySignal(sig); err != nil {
			notifyErrors.Inc()
			b.log.Error().Err(err).Msg("signal notification failed")
		}
	}
}

// rolloverDay clears the consecutive-loss counter on a UTC date
// change, releasing the circuit breaker for the new day.
func (b *Bot) rolloverDay(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	date := now.UTC().Truncate(24 * time.Hour)
	if !date.Equal(b.currentDate) {
		b.currentDate = date
		b.consecutiveLosses = 0
	}
}

// breakerAlert reports a fresh breaker activation. The breaker only
// gates emission in continuous mode, so a scheduled bot never pauses
// and never alerts.
func (b *Bot) breakerAlert(losses int) bool {
	if schedule.Mode(b.cfg.Schedule.Mode) != schedule.ModeContinuous {
		return false
	}
	return b.gate.BreakerActivated(losses)
}

// resolveExpired marks each expired pending signal as a win or loss by
// comparing the latest close against its entry, feeding the
// consecutive-loss counter.
func (b *Bot) resolveExpired(now time.Time, close float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var remaining []pendingSignal
	for _, p := range b.pending {
		if now.Before(p.sig.Expiry) {
			remaining = append(remaining, p)
			continue
		}

		move := (close - p.sig.EntryPrice) / p.sig.EntryPrice
		if p.sig.Direction == signal.Sell {
			move = -move
		}
		result := "win"
		if move < 0 {
			result = "loss"
			b.consecutiveLosses++
		} else {
			b.consecutiveLosses = 0
		}
		signalOutcomes.WithLabelValues(result).Inc()
		b.log.Info().
			Str("direction", string(p.sig.Direction)).
			Str("result", result).
			Float64("move", move).
			Msg("signal resolved at expiry")
	}
	b.pending = remaining
}

func (b *Bot) notifyText(text string) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.NotifyText(text); err != nil {
		notifyErrors.Inc()
		b.log.Error().Err(err).Msg("notification failed")
	}
}
