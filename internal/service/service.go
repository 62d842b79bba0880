// Package service implements the incremental candle sync: paging history
// from the exchange into local dataset files, one (symbol, timeframe) pair
// at a time, resumable from the last persisted candle.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"wickscan/internal/dataset"
	"wickscan/internal/fetcher"
	"wickscan/internal/market"
)

// Options configure the sync service.
type Options struct {
	ExchangeID      string
	DataDir         string
	LimitPerRequest int
	MaxCandles      int
	HistoryYears    int
}

// Service downloads and maintains candle files.
type Service struct {
	fetcher fetcher.CandleFetcher
	saver   dataset.Saver
	opts    Options
	logger  zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New constructs the sync service.
func New(f fetcher.CandleFetcher, saver dataset.Saver, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: f,
		saver:   saver,
		opts:    opts,
		logger:  logger.With().Str("component", "sync").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SyncAll refreshes every (symbol, timeframe) pair, continuing past
// per-pair failures. It returns an error when any pair failed so the
// caller can surface a partial run.
func (s *Service) SyncAll(ctx context.Context, symbols, timeframes []string) error {
	total := len(symbols) * len(timeframes)
	current := 0
	failed := 0

	for _, symbol := range symbols {
		for _, tf := range timeframes {
			current++
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			added, err := s.SyncPair(ctx, symbol, tf)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				failed++
				s.logger.Error().Err(err).
					Str("symbol", symbol).
					Str("timeframe", tf).
					Msgf("sync failed [%d/%d]", current, total)
				continue
			}

			s.logger.Info().
				Str("symbol", symbol).
				Str("timeframe", tf).
				Int("new_candles", added).
				Msgf("synced [%d/%d]", current, total)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pairs failed to sync", failed, total)
	}
	return nil
}

// SyncPair brings one candle file up to date and returns the number of
// candles appended. A fresh pair starts history_years back; an existing
// file resumes one timeframe step after its last candle, so re-running can
// neither duplicate nor gap records.
func (s *Service) SyncPair(ctx context.Context, symbol, timeframe string) (int, error) {
	step, err := market.TimeframeDuration(timeframe)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(s.opts.DataDir, dataset.FileName(s.opts.ExchangeID, symbol, timeframe, s.saver.Extension()))

	existing, err := s.loadExisting(path)
	if err != nil {
		return 0, err
	}

	now := s.now()
	since := now.AddDate(-s.opts.HistoryYears, 0, 0)
	if len(existing) > 0 {
		since = existing[len(existing)-1].TS.Add(step)
	}

	candles := existing
	added := 0
	for added < s.opts.MaxCandles {
		if !since.Before(now) {
			break
		}

		batch, err := s.fetcher.FetchCandles(ctx, symbol, timeframe, since, s.opts.LimitPerRequest)
		if err != nil {
			return added, fmt.Errorf("fetch %s %s: %w", symbol, timeframe, err)
		}
		if len(batch) == 0 {
			break
		}

		appended := 0
		for _, c := range batch {
			if len(candles) > 0 && !c.TS.After(candles[len(candles)-1].TS) {
				continue
			}
			candles = append(candles, c)
			appended++
		}
		if appended == 0 {
			break
		}
		added += appended
		since = candles[len(candles)-1].TS.Add(step)
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.saver.SaveCandles(path, candles); err != nil {
		return added, fmt.Errorf("save %s: %w", path, err)
	}
	return added, nil
}

func (s *Service) loadExisting(path string) ([]market.Candle, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	candles, err := s.saver.LoadCandles(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return candles, nil
}
