package signal

import (
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// BasicRuleSet scores five direction-symmetric conditions, one point
// each: RSI level with momentum, price against the Bollinger band,
// MACD slope, stochastic level with momentum, and volume expansion.
// A direction qualifies at two points, provided it strictly beats the
// opposite direction.
type BasicRuleSet struct {
	RSIBuyBelow    float64
	RSISellAbove   float64
	BBTolerance    float64 // band proximity as a fraction of the band
	StochBuyBelow  float64
	StochSellAbove float64
	VolumePeriod   int
	VolumeRatio    float64
	Qualify        int
}

// NewBasicRuleSet returns the basic rule set with its default thresholds.
func NewBasicRuleSet() *BasicRuleSet {
	return &BasicRuleSet{
		RSIBuyBelow:    40,
		RSISellAbove:   60,
		BBTolerance:    0.01,
		StochBuyBelow:  30,
		StochSellAbove: 70,
		VolumePeriod:   10,
		VolumeRatio:    1.2,
		Qualify:        2,
	}
}

func (r *BasicRuleSet) Name() string      { return RuleSetBasic }
func (r *BasicRuleSet) MaxScore() int     { return 5 }
func (r *BasicRuleSet) QualifyScore() int { return r.Qualify }
func (r *BasicRuleSet) MinHistory() int   { return 2 }

// Evaluate scores the window's last bar against its predecessor.
func (r *BasicRuleSet) Evaluate(frames []indicators.Frame, dir Direction) (ScoreResult, error) {
	res := ScoreResult{Direction: dir, MaxScore: r.MaxScore()}
	if len(frames) < r.MinHistory() {
		return res, errors.NewInsufficientHistory(r.MinHistory(), len(frames))
	}

	latest := frames[len(frames)-1]
	previous := frames[len(frames)-2]
	met := func(name string) {
		res.Score++
		res.Conditions = append(res.Conditions, name)
	}

	if indicators.Defined(latest.RSI) && indicators.Defined(previous.RSI) {
		switch dir {
		case Buy:
			if latest.RSI < r.RSIBuyBelow && latest.RSI > previous.RSI {
				met("RSI oversold and rising")
			}
		case Sell:
			if latest.RSI > r.RSISellAbove && latest.RSI < previous.RSI {
				met("RSI overbought and falling")
			}
		}
	}

	if indicators.Defined(latest.BBLower) && indicators.Defined(latest.BBUpper) {
		switch dir {
		case Buy:
			if latest.Close <= latest.BBLower*(1+r.BBTolerance) {
				met("price at lower Bollinger band")
			}
		case Sell:
			if latest.Close >= latest.BBUpper*(1-r.BBTolerance) {
				met("price at upper Bollinger band")
			}
		}
	}

	switch dir {
	case Buy:
		if latest.MACD > previous.MACD {
			met("MACD rising")
		}
	case Sell:
		if latest.MACD < previous.MACD {
			met("MACD falling")
		}
	}

	if indicators.Defined(latest.StochK) && indicators.Defined(previous.StochK) {
		switch dir {
		case Buy:
			if latest.StochK < r.StochBuyBelow && latest.StochK > previous.StochK {
				met("stochastic oversold and rising")
			}
		case Sell:
			if latest.StochK > r.StochSellAbove && latest.StochK < previous.StochK {
				met("stochastic overbought and falling")
			}
		}
	}

	volMean := indicators.VolumeMean(frames, len(frames)-1, r.VolumePeriod)
	if indicators.Defined(volMean) && latest.Volume > r.VolumeRatio*volMean {
		met("volume above average")
	}

	return res, nil
}
