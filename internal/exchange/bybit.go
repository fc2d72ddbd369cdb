package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// BybitClient fetches market candles from the Bybit v5 API and adapts
// them to the engine's OHLCV type. Public market endpoints work without
// credentials.
type BybitClient struct {
	httpClient *bybit_api.Client
	category   string
}

// BybitConfig configures the client's environment.
type BybitConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Category  string // "spot", "linear" or "inverse"; spot by default
}

// NewBybitClient creates a client for the configured environment.
func NewBybitClient(cfg BybitConfig) *BybitClient {
	baseURL := bybit_api.MAINNET
	if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	}
	if cfg.Category == "" {
		cfg.Category = "spot"
	}
	return &BybitClient{
		httpClient: bybit_api.NewBybitHttpClient(cfg.APIKey, cfg.APISecret, bybit_api.WithBaseURL(baseURL)),
		category:   cfg.Category,
	}
}

// GetKlines fetches the latest limit candles for the symbol, ascending
// by time. Bybit caps a single request at 1000 candles.
func (c *BybitClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	return c.fetch(ctx, symbol, interval, limit, nil, nil)
}

// GetKlinesRange fetches candles between start and end, ascending by
// time, paging backwards through the API's 1000-candle window limit.
func (c *BybitClient) GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]types.OHLCV, error) {
	var all []types.OHLCV
	cursor := end
	for cursor.After(start) {
		page, err := c.fetch(ctx, symbol, interval, 1000, &start, &cursor)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		oldest := page[0].Timestamp
		if !oldest.Before(cursor) {
			break
		}
		cursor = oldest.Add(-time.Millisecond)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })
	return all, nil
}

func (c *BybitClient) fetch(ctx context.Context, symbol, interval string, limit int, start, end *time.Time) ([]types.OHLCV, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	reqParams := map[string]interface{}{
		"category": c.category,
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	}
	if start != nil {
		reqParams["start"] = start.UnixMilli()
	}
	if end != nil {
		reqParams["end"] = end.UnixMilli()
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, errors.WrapFetchError("bybit", err)
	}
	bars, err := parseKlineResponse(result)
	if err != nil {
		return nil, errors.WrapFetchError("bybit", err)
	}
	return bars, nil
}

// parseKlineResponse converts the API payload to ascending OHLCV bars.
// Bybit returns candles newest first.
func parseKlineResponse(response interface{}) ([]types.OHLCV, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("api error %d: %s", serverResp.RetCode, serverResp.RetMsg)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var klineResult struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("unmarshal kline list: %w", err)
	}

	bars := make([]types.OHLCV, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 6 {
			continue
		}
		// Format: [startTimeMs, open, high, low, close, volume, turnover].
		ms, err := strconv.ParseInt(item[0], 10, 64)
		if err != nil {
			continue
		}
		bars = append(bars, types.OHLCV{
			Timestamp: time.UnixMilli(ms).UTC(),
			Open:      parseFloat(item[1]),
			High:      parseFloat(item[2]),
			Low:       parseFloat(item[3]),
			Close:     parseFloat(item[4]),
			Volume:    parseFloat(item[5]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
