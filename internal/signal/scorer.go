package signal

import (
	"time"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// Signal is a fully-specified trade recommendation: direction, entry
// and exit levels, position size as a fraction of capital, a quality
// label, and the conditions that produced it. It serializes cleanly to
// JSON for the signal store.
type Signal struct {
	Direction    Direction `json:"direction"`
	Timestamp    time.Time `json:"timestamp"`
	EntryPrice   float64   `json:"entry_price"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`
	PositionSize float64   `json:"position_size"`
	Expiry       time.Time `json:"expiry"`
	Quality      string    `json:"quality"`
	Score        string    `json:"score"`
	Conditions   []string  `json:"conditions"`
}

// Scorer evaluates both directions against a rule set and emits a
// signal when exactly one direction qualifies.
type Scorer struct {
	rules   RuleSet
	risk    RiskPolicy
	quality QualityMap
	expiry  time.Duration
}

// NewScorer wires a rule set to its risk policy, quality map and
// signal expiry.
func NewScorer(rules RuleSet, risk RiskPolicy, quality QualityMap, expiry time.Duration) *Scorer {
	return &Scorer{rules: rules, risk: risk, quality: quality, expiry: expiry}
}

// NewDefaultScorer builds a scorer for the named rule set with the
// default risk policy and quality bands.
func NewDefaultScorer(ruleSet string, expiry time.Duration) (*Scorer, error) {
	rules, err := NewRuleSet(ruleSet)
	if err != nil {
		return nil, err
	}
	return NewScorer(rules, DefaultRiskPolicy(ruleSet), DefaultQualityMap(ruleSet), expiry), nil
}

// RuleSet returns the scorer's rule set.
func (s *Scorer) RuleSet() RuleSet { return s.rules }

// Evaluate scores both directions on the frame window and returns a
// signal when one side reaches the qualify score and strictly beats the
// other. A tie or a double miss returns nil with no error.
func (s *Scorer) Evaluate(frames []indicators.Frame, now time.Time) (*Signal, error) {
	buy, err := s.rules.Evaluate(frames, Buy)
	if err != nil {
		return nil, err
	}
	sell, err := s.rules.Evaluate(frames, Sell)
	if err != nil {
		return nil, err
	}

	var winner ScoreResult
	switch {
	case buy.Score >= s.rules.QualifyScore() && buy.Score > sell.Score:
		winner = buy
	case sell.Score >= s.rules.QualifyScore() && sell.Score > buy.Score:
		winner = sell
	default:
		return nil, nil
	}

	latest := frames[len(frames)-1]
	stop, target := s.risk.Levels(latest, winner.Direction)
	level := s.quality.Resolve(winner.Score)

	return &Signal{
		Direction:    winner.Direction,
		Timestamp:    now,
		EntryPrice:   latest.Close,
		StopLoss:     stop,
		TakeProfit:   target,
		PositionSize: level.PositionSize,
		Expiry:       now.Add(s.expiry),
		Quality:      level.Label,
		Score:        winner.Descriptor(),
		Conditions:   winner.Conditions,
	}, nil
}
