package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/backtest"
)

type excelStyles struct {
	header  int
	price   int
	percent int
	win     int
	loss    int
}

// WriteExcel exports the backtest report as a workbook with Summary,
// Trades and Breakdown sheets.
func (r *BacktestReport) WriteExcel(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const tradesSheet = "Trades"
	const breakdownSheet = "Breakdown"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(breakdownSheet); err != nil {
		return err
	}

	styles, err := newExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, styles); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, tradesSheet, styles); err != nil {
		return err
	}
	if err := r.writeBreakdownSheet(fx, breakdownSheet, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func newExcelStyles(fx *excelize.File) (excelStyles, error) {
	var s excelStyles
	var err error

	s.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}

	s.price, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, err
	}

	s.percent, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10, // 0.00%
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, err
	}

	s.win, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4,
		Font:      &excelize.Font{Color: "008000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, err
	}

	s.loss, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4,
		Font:      &excelize.Font{Color: "FF0000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	return s, err
}

func (r *BacktestReport) writeSummarySheet(fx *excelize.File, sheet string, styles excelStyles) error {
	m := r.Metrics
	profitFactor := interface{}(m.ProfitFactor)
	if math.IsInf(m.ProfitFactor, 1) {
		profitFactor = "inf"
	}

	rows := [][2]interface{}{
		{"Symbol", r.Symbol},
		{"Rule Set", r.RuleSet},
		{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Initial Capital", r.InitialCapital},
		{"Final Capital", r.FinalCapital},
		{"Total Trades", m.TotalTrades},
		{"Winning Trades", m.WinningTrades},
		{"Losing Trades", m.LosingTrades},
		{"Win Rate", m.WinRate},
		{"Total PnL", m.TotalPnL},
		{"Total Return", m.TotalReturn},
		{"Annualized Return", m.AnnualizedReturn},
		{"Profit Factor", profitFactor},
		{"Max Drawdown", m.MaxDrawdown},
		{"Sharpe Ratio", m.SharpeRatio},
		{"Average Win", m.AverageWin},
		{"Average Loss", m.AverageLoss},
		{"Excluded Bars", r.ExcludedBars},
		{"Breaker Activations", r.BreakerTrips},
	}

	for i, row := range rows {
		if err := fx.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}
	if err := fx.SetCellStyle(sheet, "A1", "A1", styles.header); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", "B", 22)
}

func (r *BacktestReport) writeTradesSheet(fx *excelize.File, sheet string, styles excelStyles) error {
	headers := []string{"Direction", "Entry Time", "Entry Price", "Exit Time", "Exit Price", "Size", "PnL", "PnL %", "Quality", "Score"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return err
		}
	}

	for i, t := range r.Trades {
		row := i + 2
		values := []interface{}{
			string(t.Direction),
			t.EntryTime.UTC().Format("2006-01-02 15:04:05"),
			t.EntryPrice,
			t.ExitTime.UTC().Format("2006-01-02 15:04:05"),
			t.ExitPrice,
			t.Size,
			t.PnL,
			t.PnLPercent,
			t.Quality,
			t.Score,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}

		pnlCell, _ := excelize.CoordinatesToCellName(7, row)
		pnlStyle := styles.win
		if t.PnL < 0 {
			pnlStyle = styles.loss
		}
		if err := fx.SetCellStyle(sheet, pnlCell, pnlCell, pnlStyle); err != nil {
			return err
		}
		pctCell, _ := excelize.CoordinatesToCellName(8, row)
		if err := fx.SetCellStyle(sheet, pctCell, pctCell, styles.percent); err != nil {
			return err
		}
	}
	return fx.SetColWidth(sheet, "A", "J", 20)
}

func (r *BacktestReport) writeBreakdownSheet(fx *excelize.File, sheet string, styles excelStyles) error {
	next, err := writeBucketTable(fx, sheet, styles, "By Hour (UTC)", 1, r.HourBreakdown)
	if err != nil {
		return err
	}
	if _, err := writeBucketTable(fx, sheet, styles, "By Weekday", next, r.DayBreakdown); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", "E", 16)
}

func writeBucketTable(fx *excelize.File, sheet string, styles excelStyles, title string, startRow int, buckets []backtest.BucketStats) (int, error) {
	if err := fx.SetCellValue(sheet, fmt.Sprintf("A%d", startRow), title); err != nil {
		return 0, err
	}
	headers := []string{"Bucket", "Trades", "Win Rate", "Total PnL", "Avg PnL"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, startRow+1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return 0, err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return 0, err
		}
	}
	for i, b := range buckets {
		row := startRow + 2 + i
		values := []interface{}{b.Label, b.Trades, b.WinRate, b.TotalPnL, b.AveragePnL}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return 0, err
			}
		}
		rateCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := fx.SetCellStyle(sheet, rateCell, rateCell, styles.percent); err != nil {
			return 0, err
		}
	}
	return startRow + 2 + len(buckets) + 1, nil
}
