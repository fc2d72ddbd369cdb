package bot

import "github.com/prometheus/client_golang/prometheus"

var (
	signalsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_emitted_total",
		Help: "Signals emitted, by direction and quality.",
	}, []string{"direction", "quality"})

	evaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_evaluations_total",
		Help: "Completed scoring evaluations.",
	})

	fetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "market_fetch_errors_total",
		Help: "Failed market data fetches.",
	})

	notifyErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_errors_total",
		Help: "Failed notification deliveries.",
	})

	breakerTrips = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "circuit_breaker_trips_total",
		Help: "Circuit breaker activations.",
	})

	lastClose = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "market_last_close_price",
		Help: "Close price of the most recent evaluated bar.",
	})

	signalOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_outcomes_total",
		Help: "Resolved signal outcomes at expiry, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		signalsEmitted,
		evaluationsTotal,
		fetchErrors,
		notifyErrors,
		breakerTrips,
		lastClose,
		signalOutcomes,
	)
}
