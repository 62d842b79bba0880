package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"wickscan/internal/analysis"
	"wickscan/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Data     DataConfig     `mapstructure:"data"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Database DatabaseConfig `mapstructure:"database"`
	Alerting AlertingConfig `mapstructure:"alerting"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DataConfig locates candle and result files.
type DataConfig struct {
	Dir        string `mapstructure:"dir"`
	ResultsDir string `mapstructure:"results_dir"`
	Format     string `mapstructure:"format"`
}

// ExchangeConfig covers venue REST access.
type ExchangeConfig struct {
	ID             string        `mapstructure:"id"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// FetchConfig governs historical candle downloads.
type FetchConfig struct {
	Symbols         []string      `mapstructure:"symbols"`
	Timeframes      []string      `mapstructure:"timeframes"`
	LimitPerRequest int           `mapstructure:"limit_per_request"`
	MaxCandles      int           `mapstructure:"max_candles"`
	HistoryYears    int           `mapstructure:"history_years"`
	FollowInterval  time.Duration `mapstructure:"follow_interval"`
}

// AnalysisConfig wraps the sweep parameters plus presentation options.
type AnalysisConfig struct {
	analysis.Config `mapstructure:",squash"`
	TopN            int `mapstructure:"top_n"`
}

// DatabaseConfig encapsulates the optional PostgreSQL archive.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
}

// AlertingConfig defines when a standout combination is pushed out.
type AlertingConfig struct {
	Enabled    bool           `mapstructure:"enabled"`
	MinWinRate float64        `mapstructure:"min_win_rate"`
	MinEvents  int            `mapstructure:"min_events"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram delivery channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WICKSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "wickscan")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.results_dir", "results")
	v.SetDefault("data.format", "csv")

	v.SetDefault("exchange.id", "bybit")
	v.SetDefault("exchange.base_url", "https://api.bybit.com")
	v.SetDefault("exchange.request_timeout", "10s")
	v.SetDefault("exchange.rate_limit_rps", 5.0)
	v.SetDefault("exchange.rate_limit_burst", 5)
	v.SetDefault("exchange.user_agent", "wickscan/1.0")

	v.SetDefault("fetch.symbols", []string{"BTC/USDT", "ETH/USDT"})
	v.SetDefault("fetch.timeframes", []string{"1m", "3m", "5m", "15m", "30m", "1h", "2h", "4h", "1d"})
	v.SetDefault("fetch.limit_per_request", 1000)
	v.SetDefault("fetch.max_candles", 500000)
	v.SetDefault("fetch.history_years", 4)
	v.SetDefault("fetch.follow_interval", "5m")

	v.SetDefault("analysis.ma_period_min", 5)
	v.SetDefault("analysis.ma_period_max", 233)
	v.SetDefault("analysis.ma_types", []string{"SMA", "EMA"})
	v.SetDefault("analysis.alpha_wick", 0.30)
	v.SetDefault("analysis.n_pre", 5)
	v.SetDefault("analysis.n_post", 5)
	v.SetDefault("analysis.target_pct", 0.03)
	v.SetDefault("analysis.max_lookahead", 200)
	v.SetDefault("analysis.min_events_for_significance", 10)
	v.SetDefault("analysis.workers", 1)
	v.SetDefault("analysis.top_n", 20)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.advisory_lock_key", int64(0x7769636b))

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.min_win_rate", 70.0)
	v.SetDefault("alerting.min_events", 30)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs sanity checks on the configuration values. Sweep
// parameters are rejected here, before any analysis work starts.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must be set")
	}
	if c.Data.ResultsDir == "" {
		return fmt.Errorf("data.results_dir must be set")
	}
	if err := c.Analysis.Config.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if c.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis.top_n must be greater than zero")
	}
	if c.Fetch.LimitPerRequest <= 0 {
		return fmt.Errorf("fetch.limit_per_request must be greater than zero")
	}
	if c.Fetch.MaxCandles <= 0 {
		return fmt.Errorf("fetch.max_candles must be greater than zero")
	}
	if c.Fetch.HistoryYears <= 0 {
		return fmt.Errorf("fetch.history_years must be greater than zero")
	}
	if c.Fetch.FollowInterval <= 0 {
		return fmt.Errorf("fetch.follow_interval must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be set")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be set")
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
