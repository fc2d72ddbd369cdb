package indicators

import "github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"

// Default Ichimoku periods.
const (
	DefaultIchimokuConversion   = 9
	DefaultIchimokuBase         = 26
	DefaultIchimokuLagging      = 52
	DefaultIchimokuDisplacement = 26
)

// Ichimoku holds the five Ichimoku Cloud series, aligned to the input
// series. The leading spans are shifted forward by the displacement and
// the lagging span backward, matching the conventional chart alignment:
// the value at index i of a leading span was computed from bar
// i-displacement, and the lagging span at index i is the close of bar
// i+displacement (undefined for the trailing displacement entries).
// Leading-span values anchored after the evaluation bar must not be used
// as scoring inputs.
type Ichimoku struct {
	Conversion []float64
	Base       []float64
	SpanA      []float64
	SpanB      []float64
	Lagging    []float64
}

// IchimokuCloud computes the Ichimoku Cloud lines from rolling
// high/low midpoints.
func IchimokuCloud(data []types.OHLCV, conversion, base, lagging, displacement int) Ichimoku {
	n := len(data)
	ich := Ichimoku{
		Conversion: midpointSeries(data, conversion),
		Base:       midpointSeries(data, base),
		SpanA:      undefinedSeries(n),
		SpanB:      undefinedSeries(n),
		Lagging:    undefinedSeries(n),
	}

	spanB := midpointSeries(data, lagging)

	for i := 0; i < n; i++ {
		src := i - displacement
		if src >= 0 {
			if Defined(ich.Conversion[src]) && Defined(ich.Base[src]) {
				ich.SpanA[i] = (ich.Conversion[src] + ich.Base[src]) / 2
			}
			ich.SpanB[i] = spanB[src]
		}
		if i+displacement < n {
			ich.Lagging[i] = data[i+displacement].Close
		}
	}
	return ich
}

// midpointSeries is the rolling (max high + min low)/2 over the period.
func midpointSeries(data []types.OHLCV, period int) []float64 {
	out := undefinedSeries(len(data))
	if len(data) < period {
		return out
	}
	for i := period - 1; i < len(data); i++ {
		high := data[i].High
		low := data[i].Low
		for j := i - period + 1; j < i; j++ {
			if data[j].High > high {
				high = data[j].High
			}
			if data[j].Low < low {
				low = data[j].Low
			}
		}
		out[i] = (high + low) / 2
	}
	return out
}
