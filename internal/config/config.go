package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/schedule"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
)

// Duration wraps time.Duration so YAML values like "5m" parse.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Config is the complete runtime configuration, loaded from YAML with
// credentials overridden from the environment.
type Config struct {
	Symbol   string `yaml:"symbol"`
	Interval string `yaml:"interval"`
	RuleSet  string `yaml:"rule_set"`

	PollInterval  Duration `yaml:"poll_interval"`
	FetchLimit    int      `yaml:"fetch_limit"`
	HoldingPeriod Duration `yaml:"holding_period"`

	Schedule ScheduleConfig `yaml:"schedule"`
	Risk     RiskConfig     `yaml:"risk"`
	Backtest BacktestConfig `yaml:"backtest"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Telegram TelegramConfig `yaml:"telegram"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`

	SignalLogPath string `yaml:"signal_log_path"`
}

// ScheduleConfig mirrors the gate's limits in file form.
type ScheduleConfig struct {
	Mode             string                `yaml:"mode"`
	MaxPerDay        int                   `yaml:"max_per_day"`
	Windows          []schedule.HourWindow `yaml:"windows"`
	MinInterval      Duration              `yaml:"min_interval"`
	BreakerThreshold int                   `yaml:"breaker_threshold"`
}

// RiskConfig overrides the rule set's default risk and quality bands
// when set.
type RiskConfig struct {
	UseATRStop      *bool                 `yaml:"use_atr_stop"`
	ATRStopMultiple float64               `yaml:"atr_stop_multiple"`
	StopPercent     float64               `yaml:"stop_percent"`
	TargetPercent   float64               `yaml:"target_percent"`
	Quality         []signal.QualityLevel `yaml:"quality"`
}

type BacktestConfig struct {
	DataFile       string  `yaml:"data_file"`
	InitialCapital float64 `yaml:"initial_capital"`
	WarmupBars     int     `yaml:"warmup_bars"`
	OutputDir      string  `yaml:"output_dir"`
}

type ExchangeConfig struct {
	APIKey    string `yaml:"-"`
	APISecret string `yaml:"-"`
	Testnet   bool   `yaml:"testnet"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"-"`
}

type ServerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Symbol:        "BTCUSDT",
		Interval:      "1",
		RuleSet:       signal.RuleSetBasic,
		PollInterval:  Duration{time.Minute},
		FetchLimit:    200,
		HoldingPeriod: Duration{time.Minute},
		Schedule: ScheduleConfig{
			Mode:      string(schedule.ModeScheduled),
			MaxPerDay: 6,
			Windows: []schedule.HourWindow{
				{Start: 7, End: 11},
				{Start: 16, End: 19},
			},
			MinInterval:      Duration{5 * time.Minute},
			BreakerThreshold: 3,
		},
		Backtest: BacktestConfig{
			InitialCapital: 10000,
			OutputDir:      "results",
		},
		Server:        ServerConfig{Port: 8080},
		Logging:       LoggingConfig{Level: "info"},
		SignalLogPath: "data/signals.jsonl",
	}
}

// Load reads the YAML file over the defaults, applies environment
// overrides, and validates the result. An empty path loads defaults
// and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewConfigError("config", fmt.Sprintf("read %s", path), err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.NewConfigError("config", fmt.Sprintf("parse %s", path), err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BYBIT_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("BYBIT_API_SECRET"); v != "" {
		c.Exchange.APISecret = v
	}
	if v := os.Getenv("BYBIT_TESTNET"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Exchange.Testnet = b
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	fail := func(msg string) error {
		return errors.NewConfigError("config", msg, nil)
	}

	if c.Symbol == "" {
		return fail("symbol is required")
	}
	if _, err := signal.NewRuleSet(c.RuleSet); err != nil {
		return fail(err.Error())
	}
	if c.PollInterval.Duration <= 0 {
		return fail("poll_interval must be positive")
	}
	if c.FetchLimit <= 0 {
		return fail("fetch_limit must be positive")
	}
	if c.HoldingPeriod.Duration <= 0 {
		return fail("holding_period must be positive")
	}

	switch schedule.Mode(c.Schedule.Mode) {
	case schedule.ModeScheduled, schedule.ModeContinuous:
	default:
		return fail(fmt.Sprintf("unknown schedule mode %q", c.Schedule.Mode))
	}
	if c.Schedule.MaxPerDay < 0 {
		return fail("max_per_day cannot be negative")
	}
	for _, w := range c.Schedule.Windows {
		if err := w.Validate(); err != nil {
			return fail(err.Error())
		}
	}
	if c.Schedule.MinInterval.Duration < 0 {
		return fail("min_interval cannot be negative")
	}
	if c.Schedule.BreakerThreshold < 0 {
		return fail("breaker_threshold cannot be negative")
	}

	if c.Backtest.InitialCapital <= 0 {
		return fail("initial_capital must be positive")
	}
	if c.Risk.StopPercent < 0 || c.Risk.TargetPercent < 0 || c.Risk.ATRStopMultiple < 0 {
		return fail("risk parameters cannot be negative")
	}
	for _, q := range c.Risk.Quality {
		if q.PositionSize <= 0 || q.PositionSize > 1 {
			return fail(fmt.Sprintf("quality %q position size %.3f out of (0,1]", q.Label, q.PositionSize))
		}
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fail("telegram enabled but TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID unset")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fail(fmt.Sprintf("server port %d out of range", c.Server.Port))
	}
	return nil
}

// GateConfig converts the schedule section to the gate's config type.
func (c *Config) GateConfig() schedule.Config {
	return schedule.Config{
		Mode:             schedule.Mode(c.Schedule.Mode),
		MaxPerDay:        c.Schedule.MaxPerDay,
		Windows:          c.Schedule.Windows,
		MinInterval:      c.Schedule.MinInterval.Duration,
		BreakerThreshold: c.Schedule.BreakerThreshold,
	}
}

// RiskPolicy merges the file's risk overrides onto the rule set's
// defaults.
func (c *Config) RiskPolicy() signal.RiskPolicy {
	policy := signal.DefaultRiskPolicy(c.RuleSet)
	if c.Risk.UseATRStop != nil {
		policy.UseATRStop = *c.Risk.UseATRStop
	}
	if c.Risk.ATRStopMultiple > 0 {
		policy.ATRStopMultiple = c.Risk.ATRStopMultiple
	}
	if c.Risk.StopPercent > 0 {
		policy.StopPercent = c.Risk.StopPercent
	}
	if c.Risk.TargetPercent > 0 {
		policy.TargetPercent = c.Risk.TargetPercent
	}
	return policy
}

// QualityMap returns the file's quality bands, or the rule set's
// defaults when none are configured.
func (c *Config) QualityMap() signal.QualityMap {
	if len(c.Risk.Quality) > 0 {
		return signal.QualityMap(c.Risk.Quality)
	}
	return signal.DefaultQualityMap(c.RuleSet)
}

// NewScorer assembles the configured scorer.
func (c *Config) NewScorer() (*signal.Scorer, error) {
	rules, err := signal.NewRuleSet(c.RuleSet)
	if err != nil {
		return nil, err
	}
	return signal.NewScorer(rules, c.RiskPolicy(), c.QualityMap(), c.HoldingPeriod.Duration), nil
}
