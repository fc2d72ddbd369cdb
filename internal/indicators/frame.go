package indicators

import (
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// MinHistoryBars is the minimum series length accepted for evaluation.
// It covers the dominant warmup term: the Ichimoku lagging period (52)
// plus its displacement (26) leaves 78 bars before every field is
// defined; 100 adds headroom for the volume averages used by scoring.
const MinHistoryBars = 100

// Frame is a price bar extended with the computed indicator fields.
// Fields are NaN (use Defined) inside their warmup region. Frames are
// produced as a new series; the input bars are never mutated.
type Frame struct {
	types.OHLCV

	RSI     float64
	RSIFast float64

	BBLower  float64
	BBMiddle float64
	BBUpper  float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	StochK float64
	StochD float64

	ATR float64

	IchimokuConversion float64
	IchimokuBase       float64
	IchimokuSpanA      float64
	IchimokuSpanB      float64
	IchimokuLagging    float64
}

// AddAllIndicators computes the full indicator frame series for the
// input bars. Evaluation on fewer than MinHistoryBars bars is rejected.
// The computation is pure: calling it twice on the same input yields
// identical output.
func AddAllIndicators(data []types.OHLCV) ([]Frame, error) {
	if len(data) < MinHistoryBars {
		return nil, errors.NewInsufficientHistory(MinHistoryBars, len(data))
	}

	rsi := RSI(data, DefaultRSIPeriod)
	rsiFast := RSI(data, FastRSIPeriod)
	bbMiddle, bbUpper, bbLower := BollingerBands(data, DefaultBBPeriod, DefaultBBStdDev)
	macd, macdSignal, macdHist := MACD(data, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	stochK, stochD := Stochastic(data, DefaultStochKPeriod, DefaultStochDPeriod)
	atr := ATR(data, DefaultATRPeriod)
	ich := IchimokuCloud(data, DefaultIchimokuConversion, DefaultIchimokuBase,
		DefaultIchimokuLagging, DefaultIchimokuDisplacement)

	frames := make([]Frame, len(data))
	for i := range data {
		frames[i] = Frame{
			OHLCV:              data[i],
			RSI:                rsi[i],
			RSIFast:            rsiFast[i],
			BBLower:            bbLower[i],
			BBMiddle:           bbMiddle[i],
			BBUpper:            bbUpper[i],
			MACD:               macd[i],
			MACDSignal:         macdSignal[i],
			MACDHist:           macdHist[i],
			StochK:             stochK[i],
			StochD:             stochD[i],
			ATR:                atr[i],
			IchimokuConversion: ich.Conversion[i],
			IchimokuBase:       ich.Base[i],
			IchimokuSpanA:      ich.SpanA[i],
			IchimokuSpanB:      ich.SpanB[i],
			IchimokuLagging:    ich.Lagging[i],
		}
	}
	return frames, nil
}

// VolumeMean is the simple mean volume of the trailing period ending at
// index i, or NaN when fewer than period bars precede it.
func VolumeMean(frames []Frame, i, period int) float64 {
	if i+1 < period {
		return Undefined()
	}
	var sum float64
	for j := i - period + 1; j <= i; j++ {
		sum += frames[j].Volume
	}
	return sum / float64(period)
}
