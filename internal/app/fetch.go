package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"wickscan/internal/scheduler"
	"wickscan/internal/service"
)

// Fetch downloads candle history for the configured pairs. With Follow set
// it keeps running, re-syncing on the configured interval until interrupted;
// when a database is configured an advisory lock keeps concurrent follow
// processes from racing over the same files.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	symbols := opts.Symbols
	if len(symbols) == 0 {
		symbols = a.Config.Fetch.Symbols
	}
	timeframes := opts.Timeframes
	if len(timeframes) == 0 {
		timeframes = a.Config.Fetch.Timeframes
	}

	saver, err := a.newSaver()
	if err != nil {
		return err
	}

	svc := service.New(a.newFetcher(), saver, service.Options{
		ExchangeID:      a.Config.Exchange.ID,
		DataDir:         a.Config.Data.Dir,
		LimitPerRequest: a.Config.Fetch.LimitPerRequest,
		MaxCandles:      a.Config.Fetch.MaxCandles,
		HistoryYears:    a.Config.Fetch.HistoryYears,
	}, a.Logger)

	if !opts.Follow {
		return svc.SyncAll(ctx, symbols, timeframes)
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}
	if store != nil {
		unlock, acquired, err := store.TryAdvisoryLock(ctx, a.Config.Database.AdvisoryLockKey)
		if err != nil {
			return err
		}
		if !acquired {
			return errors.New("another follow process holds the sync lock")
		}
		defer unlock()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Fetch.FollowInterval,
		AlignToStart: true,
	}, a.Logger)

	a.Logger.Info().
		Dur("interval", a.Config.Fetch.FollowInterval).
		Int("symbols", len(symbols)).
		Int("timeframes", len(timeframes)).
		Msg("starting follow sync")

	err = sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		return svc.SyncAll(ctx, symbols, timeframes)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("follow sync stopped")
	return nil
}
