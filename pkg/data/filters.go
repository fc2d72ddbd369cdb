package data

import (
	"sort"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// CleanSeries drops malformed candles and returns the remaining bars in
// ascending time order together with a record of every exclusion.
// Excluded: non-positive or inconsistent prices, negative volume, zero
// timestamps, and duplicate timestamps (the first occurrence wins).
func CleanSeries(bars []types.OHLCV) ([]types.OHLCV, []errors.InvalidBarError) {
	var clean []types.OHLCV
	var excluded []errors.InvalidBarError

	seen := make(map[int64]bool, len(bars))
	for i, bar := range bars {
		switch {
		case bar.Timestamp.IsZero():
			excluded = append(excluded, errors.InvalidBarError{
				Index: i, Timestamp: bar.Timestamp, Reason: "zero timestamp",
			})
		case !bar.IsValid():
			excluded = append(excluded, errors.InvalidBarError{
				Index: i, Timestamp: bar.Timestamp, Reason: "inconsistent OHLCV values",
			})
		case seen[bar.Timestamp.UnixNano()]:
			excluded = append(excluded, errors.InvalidBarError{
				Index: i, Timestamp: bar.Timestamp, Reason: "duplicate timestamp",
			})
		default:
			seen[bar.Timestamp.UnixNano()] = true
			clean = append(clean, bar)
		}
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Timestamp.Before(clean[j].Timestamp)
	})
	return clean, excluded
}
