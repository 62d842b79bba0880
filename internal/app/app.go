// Package app implements the CLI commands on top of the domain packages:
// candle fetching, the bounce sweep, result display and export.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"wickscan/internal/alerting"
	"wickscan/internal/config"
	"wickscan/internal/dataset"
	"wickscan/internal/fetcher"
	"wickscan/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.CandleFetcher {
	return fetcher.NewBybit(fetcher.BybitOptions{
		BaseURL:        a.Config.Exchange.BaseURL,
		Timeout:        a.Config.Exchange.RequestTimeout,
		UserAgent:      a.Config.Exchange.UserAgent,
		RateLimitRPS:   a.Config.Exchange.RateLimitRPS,
		RateLimitBurst: a.Config.Exchange.RateLimitBurst,
	}, a.Logger)
}

func (a *App) newSaver() (dataset.Saver, error) {
	return dataset.NewSaver(a.Config.Data.Format)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// FetchOptions select what the fetch command downloads.
type FetchOptions struct {
	Symbols    []string
	Timeframes []string
	Follow     bool
}

// AnalyzeOptions override sweep parameters from the command line.
type AnalyzeOptions struct {
	Symbols    []string
	Timeframes []string
	TopN       int
}

// ShowOptions control the archived-result listing.
type ShowOptions struct {
	Limit       int
	PruneBefore *time.Time
}

// ExportOptions select the series and outputs for the export command.
type ExportOptions struct {
	Symbol    string
	Timeframe string
	MAType    string
	Period    int
	CSVPath   string
	PNGPath   string
	MaxPoints int
}
