package signal

import (
	"sort"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// RiskPolicy derives stop loss and take profit levels for a new signal.
// The stop is either ATR-based (entry minus a multiple of the latest
// ATR for a buy) or a fixed fraction of the entry price; the target is
// always a fixed fraction.
type RiskPolicy struct {
	UseATRStop     bool
	ATRStopMultiple float64
	StopPercent    float64
	TargetPercent  float64
}

// DefaultRiskPolicy returns the risk parameters used by the named rule
// set: the basic set stops at 1.5 ATR with a 1% target, the scalping
// set uses tight fixed 0.5% stops with the same 1% target.
func DefaultRiskPolicy(ruleSet string) RiskPolicy {
	if ruleSet == RuleSetScalping {
		return RiskPolicy{
			StopPercent:   0.005,
			TargetPercent: 0.01,
		}
	}
	return RiskPolicy{
		UseATRStop:      true,
		ATRStopMultiple: 1.5,
		TargetPercent:   0.01,
	}
}

// Levels computes the stop loss and take profit for an entry at the
// latest frame's close. When the ATR stop is configured but the ATR is
// still undefined, it falls back to the fixed percent stop.
func (p RiskPolicy) Levels(latest indicators.Frame, dir Direction) (stop, target float64) {
	entry := latest.Close
	stopDistance := entry * p.StopPercent
	if p.UseATRStop && indicators.Defined(latest.ATR) {
		stopDistance = latest.ATR * p.ATRStopMultiple
	}
	if dir == Buy {
		return entry - stopDistance, entry * (1 + p.TargetPercent)
	}
	return entry + stopDistance, entry * (1 - p.TargetPercent)
}

// QualityLevel labels a score band and sets its position size as a
// fraction of capital.
type QualityLevel struct {
	MinScore     int     `yaml:"min_score" json:"min_score"`
	Label        string  `yaml:"label" json:"label"`
	PositionSize float64 `yaml:"position_size" json:"position_size"`
}

// QualityMap resolves a score to the highest band it reaches. Levels
// are kept sorted by MinScore descending.
type QualityMap []QualityLevel

// DefaultQualityMap returns the score-to-quality bands for the named
// rule set.
func DefaultQualityMap(ruleSet string) QualityMap {
	if ruleSet == RuleSetScalping {
		return QualityMap{
			{MinScore: 6, Label: "VERY STRONG", PositionSize: 0.03},
			{MinScore: 5, Label: "STRONG", PositionSize: 0.02},
			{MinScore: 0, Label: "MODERATE", PositionSize: 0.01},
		}
	}
	return QualityMap{
		{MinScore: 4, Label: "Strong", PositionSize: 0.02},
		{MinScore: 0, Label: "Moderate", PositionSize: 0.015},
	}
}

// Resolve returns the band for the given score.
func (m QualityMap) Resolve(score int) QualityLevel {
	sorted := make(QualityMap, len(m))
	copy(sorted, m)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore > sorted[j].MinScore })
	for _, level := range sorted {
		if score >= level.MinScore {
			return level
		}
	}
	if len(sorted) > 0 {
		return sorted[len(sorted)-1]
	}
	return QualityLevel{}
}
