package data

import (
	"context"
	"time"

	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// Provider supplies OHLCV candles in ascending time order.
type Provider interface {
	// GetKlines returns up to limit candles ending at the most recent
	// closed bar.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)
	// GetKlinesRange returns all candles between start and end.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]types.OHLCV, error)
}
