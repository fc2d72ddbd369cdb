package signal

import (
	"fmt"
	"math"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/indicators"
)

// ScalpingRuleSet scores seven stricter conditions aimed at short
// reversal entries: RSI reversal slope, Bollinger squeeze bounce or
// rejection, volume spike with price confirmation, MACD momentum shift,
// support/resistance proximity, stochastic crossover in the extreme
// zone, and a reversal candle pattern. A direction qualifies at four
// points and must strictly beat the opposite direction.
type ScalpingRuleSet struct {
	RSIBuyBelow     float64
	RSISellAbove    float64
	RSISlopeMin     float64
	SqueezeRatio    float64
	BandWidthPeriod int     // trailing bars averaged for the squeeze baseline
	BBTouch         float64 // proximity to the band as a fraction
	VolumePeriod    int
	VolumeRatio     float64
	LevelLookback   int     // rolling extreme window for support/resistance
	LevelTolerance  float64 // support/resistance proximity fraction
	WickBodyRatio   float64
	Qualify         int
}

// NewScalpingRuleSet returns the scalping rule set with its default
// thresholds.
func NewScalpingRuleSet() *ScalpingRuleSet {
	return &ScalpingRuleSet{
		RSIBuyBelow:     35,
		RSISellAbove:    65,
		RSISlopeMin:     0.5,
		SqueezeRatio:    0.7,
		BandWidthPeriod: 20,
		BBTouch:         0.002,
		VolumePeriod:    20,
		VolumeRatio:     1.5,
		LevelLookback:   10,
		LevelTolerance:  0.002,
		WickBodyRatio:   2,
		Qualify:         4,
	}
}

func (r *ScalpingRuleSet) Name() string      { return RuleSetScalping }
func (r *ScalpingRuleSet) MaxScore() int     { return 7 }
func (r *ScalpingRuleSet) QualifyScore() int { return r.Qualify }
func (r *ScalpingRuleSet) MinHistory() int   { return indicators.MinHistoryBars }

func (r *ScalpingRuleSet) Evaluate(frames []indicators.Frame, dir Direction) (ScoreResult, error) {
	res := ScoreResult{Direction: dir, MaxScore: r.MaxScore()}
	if len(frames) < r.MinHistory() {
		return res, errors.NewInsufficientHistory(r.MinHistory(), len(frames))
	}

	n := len(frames)
	latest := frames[n-1]
	previous := frames[n-2]
	third := frames[n-3]
	met := func(name string) {
		res.Score++
		res.Conditions = append(res.Conditions, name)
	}

	// 1. RSI reversal: extreme level with the slope turning back.
	if indicators.Defined(latest.RSI) && indicators.Defined(third.RSI) {
		slope := (latest.RSI - third.RSI) / 2
		switch dir {
		case Buy:
			if latest.RSI < r.RSIBuyBelow && slope > r.RSISlopeMin {
				met("RSI reversal from oversold")
			}
		case Sell:
			if latest.RSI > r.RSISellAbove && slope < -r.RSISlopeMin {
				met("RSI exhaustion from overbought")
			}
		}
	}

	// 2. Bollinger squeeze bounce (buy) / upper-band rejection (sell).
	if bandsDefined(latest) && bandsDefined(previous) {
		switch dir {
		case Buy:
			width := latest.BBUpper - latest.BBLower
			avgWidth := meanBandWidth(frames, n-1, r.BandWidthPeriod)
			if indicators.Defined(avgWidth) && width < avgWidth*r.SqueezeRatio &&
				latest.Close <= latest.BBLower*(1+r.BBTouch) &&
				previous.Close < previous.BBLower && latest.Close > previous.Close {
				met("Bollinger band squeeze bounce")
			}
		case Sell:
			if latest.Close >= latest.BBUpper*(1-r.BBTouch) &&
				previous.High > previous.BBUpper && latest.Close < previous.Close {
				met("Bollinger band upper rejection")
			}
		}
	}

	// 3. Volume spike confirmed by price direction.
	volMean := indicators.VolumeMean(frames, n-1, r.VolumePeriod)
	if indicators.Defined(volMean) && latest.Volume > r.VolumeRatio*volMean {
		switch dir {
		case Buy:
			if latest.Close > third.Close {
				met("volume spike with price support")
			}
		case Sell:
			if latest.Close < third.Close {
				met("high volume selling pressure")
			}
		}
	}

	// 4. MACD momentum shift.
	hist := latest.MACDHist
	prevHist := previous.MACDHist
	switch dir {
	case Buy:
		if hist > prevHist && prevHist < 0 && math.Abs(hist) < math.Abs(prevHist) {
			met("MACD momentum shift")
		}
	case Sell:
		if hist < prevHist && prevHist > 0 && latest.MACD < latest.MACDSignal {
			met("MACD bearish crossover")
		}
	}

	// 5. Bounce off a recent support level (buy) or rejection at a
	// recent resistance level (sell).
	switch dir {
	case Buy:
		for _, support := range recentLevels(frames, r.LevelLookback, false) {
			if support > 0 && math.Abs(latest.Low-support)/support < r.LevelTolerance &&
				latest.Close > latest.Open {
				met(fmt.Sprintf("support bounce at %.2f", support))
				break
			}
		}
	case Sell:
		for _, resistance := range recentLevels(frames, r.LevelLookback, true) {
			if resistance > 0 && math.Abs(latest.High-resistance)/resistance < r.LevelTolerance &&
				latest.Close < latest.Open {
				met(fmt.Sprintf("resistance rejection at %.2f", resistance))
				break
			}
		}
	}

	// 6. Stochastic crossover inside the extreme zone.
	if stochDefined(latest) && stochDefined(previous) {
		switch dir {
		case Buy:
			if latest.StochK < 20 && latest.StochD < 20 &&
				latest.StochK > latest.StochD && previous.StochK <= previous.StochD {
				met("stochastic oversold crossover")
			}
		case Sell:
			if latest.StochK > 80 && latest.StochD > 80 &&
				latest.StochK < latest.StochD && previous.StochK >= previous.StochD {
				met("stochastic overbought crossunder")
			}
		}
	}

	// 7. Reversal candle: hammer (buy) or shooting star (sell).
	body := math.Abs(latest.Close - latest.Open)
	switch dir {
	case Buy:
		lowerWick := math.Min(latest.Open, latest.Close) - latest.Low
		if lowerWick > body*r.WickBodyRatio && latest.Close > latest.Open {
			met("bullish hammer pattern")
		}
	case Sell:
		upperWick := latest.High - math.Max(latest.Open, latest.Close)
		if upperWick > body*r.WickBodyRatio && latest.Close < latest.Open {
			met("bearish shooting star pattern")
		}
	}

	return res, nil
}

func bandsDefined(f indicators.Frame) bool {
	return indicators.Defined(f.BBLower) && indicators.Defined(f.BBUpper)
}

func stochDefined(f indicators.Frame) bool {
	return indicators.Defined(f.StochK) && indicators.Defined(f.StochD)
}

// meanBandWidth averages the Bollinger band width over the trailing
// period ending at index i, skipping warmup entries.
func meanBandWidth(frames []indicators.Frame, i, period int) float64 {
	if i+1 < period {
		return indicators.Undefined()
	}
	var sum float64
	count := 0
	for j := i - period + 1; j <= i; j++ {
		if bandsDefined(frames[j]) {
			sum += frames[j].BBUpper - frames[j].BBLower
			count++
		}
	}
	if count == 0 {
		return indicators.Undefined()
	}
	return sum / float64(count)
}

// recentLevels returns up to the last three distinct rolling extremes
// over the lookback (max highs for resistance, min lows for support).
func recentLevels(frames []indicators.Frame, period int, resistance bool) []float64 {
	if len(frames) < period {
		return nil
	}
	var rolling []float64
	for i := period - 1; i < len(frames); i++ {
		extreme := frames[i-period+1].Low
		if resistance {
			extreme = frames[i-period+1].High
		}
		for j := i - period + 2; j <= i; j++ {
			if resistance {
				extreme = math.Max(extreme, frames[j].High)
			} else {
				extreme = math.Min(extreme, frames[j].Low)
			}
		}
		rolling = append(rolling, extreme)
	}

	var distinct []float64
	for _, v := range rolling {
		if len(distinct) == 0 || distinct[len(distinct)-1] != v {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) > 3 {
		distinct = distinct[len(distinct)-3:]
	}
	return distinct
}
