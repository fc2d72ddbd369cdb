package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/backtest"
)

// WriteTradesCSV exports the trade list to a CSV file with a header
// row.
func WriteTradesCSV(path string, trades []backtest.Trade) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{
		"direction", "entry_time", "entry_price", "exit_time", "exit_price",
		"size", "pnl", "pnl_percent", "quality", "score",
	}); err != nil {
		return err
	}
	for _, t := range trades {
		record := []string{
			string(t.Direction),
			t.EntryTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			t.ExitTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			strconv.FormatFloat(t.PnL, 'f', -1, 64),
			strconv.FormatFloat(t.PnLPercent, 'f', -1, 64),
			t.Quality,
			t.Score,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
