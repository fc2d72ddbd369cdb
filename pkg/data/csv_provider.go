package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

// CSVColumnMapping describes where each OHLCV field lives in a CSV row.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
	HasHeader    bool
}

// DefaultCSVFormat is the layout of exported kline files:
// timestamp,open,high,low,close,volume with a header row.
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02 15:04:05",
	HasHeader:    true,
}

// CSVProvider loads historical candles from CSV files.
type CSVProvider struct {
	format CSVColumnMapping
	log    zerolog.Logger
}

// NewCSVProvider creates a CSV provider with the default column layout.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat, log: zerolog.Nop()}
}

// NewCSVProviderWithFormat creates a CSV provider with a custom layout.
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format, log: zerolog.Nop()}
}

// WithLogger returns the provider logging skipped rows to log.
func (p *CSVProvider) WithLogger(log zerolog.Logger) *CSVProvider {
	p.log = log
	return p
}

// LoadFile reads every parseable row from the file. Rows that fail to
// parse are logged and skipped; structural validation of the parsed
// bars is left to CleanSeries.
func (p *CSVProvider) LoadFile(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", filename, err)
	}
	defer file.Close()
	return p.parse(csv.NewReader(file))
}

func (p *CSVProvider) parse(reader *csv.Reader) ([]types.OHLCV, error) {
	reader.FieldsPerRecord = -1

	lineNum := 0
	if p.format.HasHeader {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("read csv header: %w", err)
		}
		lineNum++
	}

	var bars []types.OHLCV
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			p.log.Warn().Int("line", lineNum).Int("columns", len(record)).Msg("short csv row skipped")
			continue
		}

		bar, err := p.parseRow(record)
		if err != nil {
			p.log.Warn().Int("line", lineNum).Err(err).Msg("unparseable csv row skipped")
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (p *CSVProvider) parseRow(record []string) (types.OHLCV, error) {
	ts, err := time.Parse(p.format.DateFormat, record[p.format.TimestampCol])
	if err != nil {
		// Fall back to millisecond epoch timestamps as exported by
		// exchange dumps.
		ms, msErr := strconv.ParseInt(record[p.format.TimestampCol], 10, 64)
		if msErr != nil {
			return types.OHLCV{}, fmt.Errorf("timestamp %q: %w", record[p.format.TimestampCol], err)
		}
		ts = time.UnixMilli(ms).UTC()
	}

	fields := [5]float64{}
	cols := [5]int{p.format.OpenCol, p.format.HighCol, p.format.LowCol, p.format.CloseCol, p.format.VolumeCol}
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i, col := range cols {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("%s %q: %w", names[i], record[col], err)
		}
		fields[i] = v
	}

	return types.OHLCV{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// GetKlines returns the last limit bars of the file named by symbol.
// The interval argument is ignored; the file's native interval applies.
func (p *CSVProvider) GetKlines(_ context.Context, symbol, _ string, limit int) ([]types.OHLCV, error) {
	bars, err := p.LoadFile(symbol)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// GetKlinesRange returns the file's bars between start and end inclusive.
func (p *CSVProvider) GetKlinesRange(_ context.Context, symbol, _ string, start, end time.Time) ([]types.OHLCV, error) {
	bars, err := p.LoadFile(symbol)
	if err != nil {
		return nil, err
	}
	var out []types.OHLCV
	for _, bar := range bars {
		if !bar.Timestamp.Before(start) && !bar.Timestamp.After(end) {
			out = append(out, bar)
		}
	}
	return out, nil
}
