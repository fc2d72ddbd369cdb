package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/backtest"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/config"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/exchange"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/logger"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/data"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/reporting"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/types"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	dataFile := flag.String("data", "", "CSV file with historical candles (overrides config)")
	synthetic := flag.Int("synthetic", 0, "generate this many synthetic candles instead of loading data")
	fetchDays := flag.Int("fetch-days", 0, "fetch this many days of candles from the exchange")
	ruleSet := flag.String("rule-set", "", "rule set to evaluate (overrides config)")
	outputDir := flag.String("output", "", "directory for report files (overrides config)")
	excel := flag.Bool("excel", false, "also write an Excel workbook")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logger.New("info", true)
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}
	if *dataFile != "" {
		cfg.Backtest.DataFile = *dataFile
	}
	if *ruleSet != "" {
		cfg.RuleSet = *ruleSet
		if err := cfg.Validate(); err != nil {
			fallback := logger.New("info", true)
			fallback.Fatal().Err(err).Msg("configuration invalid")
		}
	}
	if *outputDir != "" {
		cfg.Backtest.OutputDir = *outputDir
	}

	log := logger.New(cfg.Logging.Level, true)

	bars, err := loadBars(cfg, *synthetic, *fetchDays, log)
	if err != nil {
		log.Fatal().Err(err).Msg("loading candles failed")
	}
	log.Info().Int("bars", len(bars)).Str("rule_set", cfg.RuleSet).Msg("starting backtest")

	scorer, err := cfg.NewScorer()
	if err != nil {
		log.Fatal().Err(err).Msg("scorer setup failed")
	}

	engine := backtest.NewEngine(backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		HoldingPeriod:  cfg.HoldingPeriod.Duration,
		WarmupBars:     cfg.Backtest.WarmupBars,
		Gate:           cfg.GateConfig(),
	}, scorer, log)

	result, err := engine.Run(bars)
	if err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}

	report := reporting.NewBacktestReport(cfg.Symbol, cfg.RuleSet, cfg.Backtest.InitialCapital, result)
	reporting.PrintSummary(os.Stdout, report)
	reporting.PrintBreakdown(os.Stdout, "Trades by Hour (UTC)", result.HourBreakdown)
	reporting.PrintBreakdown(os.Stdout, "Trades by Weekday", result.DayBreakdown)

	dir := cfg.Backtest.OutputDir
	if err := report.WriteJSON(filepath.Join(dir, "backtest.json")); err != nil {
		log.Error().Err(err).Msg("writing JSON report failed")
	}
	if err := reporting.WriteTradesCSV(filepath.Join(dir, "trades.csv"), result.Trades); err != nil {
		log.Error().Err(err).Msg("writing trades CSV failed")
	}
	if *excel {
		if err := report.WriteExcel(filepath.Join(dir, "backtest.xlsx")); err != nil {
			log.Error().Err(err).Msg("writing Excel workbook failed")
		}
	}
	log.Info().Str("dir", dir).Msg("reports written")
}

func loadBars(cfg *config.Config, synthetic, fetchDays int, log zerolog.Logger) ([]types.OHLCV, error) {
	switch {
	case synthetic > 0:
		return data.GenerateSynthetic(synthetic, data.DefaultSyntheticConfig()), nil
	case fetchDays > 0:
		client := exchange.NewBybitClient(exchange.BybitConfig{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.APISecret,
			Testnet:   cfg.Exchange.Testnet,
		})
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -fetchDays)
		return client.GetKlinesRange(context.Background(), cfg.Symbol, cfg.Interval, start, end)
	default:
		return data.NewCSVProvider().WithLogger(log).LoadFile(cfg.Backtest.DataFile)
	}
}
