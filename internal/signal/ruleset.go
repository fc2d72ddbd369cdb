package signal

import (
	"fmt"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// Direction of a trade signal.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// ScoreResult is the outcome of evaluating one direction against a rule
// set: the number of conditions met out of the rule set's maximum, with
// the names of the matched conditions in rule order. A zero score is a
// normal result, not an error.
type ScoreResult struct {
	Direction  Direction
	Score      int
	MaxScore   int
	Conditions []string
}

// Descriptor renders the score as "n/max".
func (r ScoreResult) Descriptor() string {
	return fmt.Sprintf("%d/%d", r.Score, r.MaxScore)
}

// RuleSet scores a window of indicator frames for one direction. Both
// directions are independent pure functions of the same window.
// Implementations must never report an undefined indicator comparison
// as a met condition.
type RuleSet interface {
	Name() string
	MaxScore() int
	// QualifyScore is the minimum score at which a direction qualifies
	// (it must additionally beat the opposite direction strictly).
	QualifyScore() int
	// MinHistory is the shortest window Evaluate accepts.
	MinHistory() int
	Evaluate(frames []indicators.Frame, dir Direction) (ScoreResult, error)
}

// Rule set names accepted by the factory.
const (
	RuleSetBasic    = "basic"
	RuleSetScalping = "scalping"
)

// NewRuleSet creates a rule set by configured name.
func NewRuleSet(name string) (RuleSet, error) {
	switch name {
	case RuleSetBasic:
		return NewBasicRuleSet(), nil
	case RuleSetScalping:
		return NewScalpingRuleSet(), nil
	default:
		return nil, fmt.Errorf("unknown rule set %q", name)
	}
}
