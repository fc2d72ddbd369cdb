package indicators

import "github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"

// PriceBin is one bucket of the volume profile. A bin whose volume
// exceeds the mean across bins is flagged as a support/resistance zone.
type PriceBin struct {
	PriceLow          float64
	PriceHigh         float64
	Volume            float64
	SupportResistance bool
}

// VolumeProfile distributes each bar's volume into the price bins its
// high-low range overlaps, over evenly spaced bins between the series
// minimum low and maximum high.
func VolumeProfile(data []types.OHLCV, bins int) []PriceBin {
	if len(data) == 0 || bins <= 0 {
		return nil
	}
	minPrice := data[0].Low
	maxPrice := data[0].High
	for _, bar := range data {
		if bar.Low < minPrice {
			minPrice = bar.Low
		}
		if bar.High > maxPrice {
			maxPrice = bar.High
		}
	}
	if maxPrice == minPrice {
		// Degenerate flat series: all volume in a single bin.
		var total float64
		for _, bar := range data {
			total += bar.Volume
		}
		return []PriceBin{{PriceLow: minPrice, PriceHigh: maxPrice, Volume: total, SupportResistance: false}}
	}

	width := (maxPrice - minPrice) / float64(bins)
	profile := make([]PriceBin, bins)
	for i := range profile {
		profile[i].PriceLow = minPrice + float64(i)*width
		profile[i].PriceHigh = minPrice + float64(i+1)*width
	}

	for _, bar := range data {
		for i := range profile {
			if bar.Low <= profile[i].PriceHigh && bar.High >= profile[i].PriceLow {
				profile[i].Volume += bar.Volume
			}
		}
	}

	var total float64
	for _, bin := range profile {
		total += bin.Volume
	}
	mean := total / float64(bins)
	for i := range profile {
		profile[i].SupportResistance = profile[i].Volume > mean
	}
	return profile
}
