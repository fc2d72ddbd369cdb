package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/bot"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/config"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/exchange"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/logger"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/notify"
	"github.com/Zelfconnect/bitcoin-trading-signals/pkg/reporting"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	envFile := flag.String("env", ".env", "path to .env file with credentials")
	flag.Parse()

	// Credentials come from the environment; a missing .env is fine
	// when the variables are set another way.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger config may itself be broken, so use a default logger
		// for the failure report.
		fallback := logger.New("info", true)
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Console)

	provider := exchange.NewBybitClient(exchange.BybitConfig{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.APISecret,
		Testnet:   cfg.Exchange.Testnet,
	})

	scorer, err := cfg.NewScorer()
	if err != nil {
		log.Fatal().Err(err).Msg("scorer setup failed")
	}

	var store *reporting.SignalStore
	if cfg.SignalLogPath != "" {
		store, err = reporting.OpenSignalStore(cfg.SignalLogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("signal log setup failed")
		}
		defer store.Close()
	}

	var notifier notify.Notifier
	if cfg.Telegram.Enabled {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Symbol, log)
	}

	b := bot.New(cfg, provider, scorer, store, notifier, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		server := bot.NewServer(cfg.Server.Port, b, log)
		go func() {
			if err := server.Start(ctx); err != nil {
				log.Error().Err(err).Msg("status server failed")
			}
		}()
	}

	if err := b.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("bot exited with error")
	}
}
