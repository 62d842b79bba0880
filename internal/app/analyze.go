package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"wickscan/internal/alerting"
	"wickscan/internal/analysis"
	"wickscan/internal/dataset"
	"wickscan/internal/market"
	"wickscan/internal/storage"
)

// Analyze runs the sweep over every intraday candle file in the data
// directory, writes the combined result table, prints the top combinations,
// and optionally archives and alerts on the outcome.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	saver, err := a.newSaver()
	if err != nil {
		return err
	}

	sweeper, err := analysis.NewSweeper(a.Config.Analysis.Config, a.Logger)
	if err != nil {
		return err
	}

	paths, err := dataset.Scan(a.Config.Data.Dir, saver.Extension())
	if err != nil {
		return err
	}

	var summaries []analysis.Summary
	analyzed := 0
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		series, ok := a.loadSeries(path, saver, opts)
		if !ok {
			continue
		}

		result := sweeper.SweepSeries(series)
		a.Logger.Info().
			Str("symbol", series.Symbol).
			Str("timeframe", series.Timeframe).
			Int("candles", len(series.Candles)).
			Int("significant", len(result)).
			Msg("series analyzed")

		summaries = append(summaries, result...)
		analyzed++
	}

	// An empty sweep is still a successful run: the (empty) result table is
	// written and the command exits cleanly.
	if len(paths) == 0 {
		a.Logger.Warn().
			Str("dir", a.Config.Data.Dir).
			Str("format", saver.Extension()).
			Msg("no candle files found; run fetch first")
	} else if analyzed == 0 {
		a.Logger.Warn().Msg("no series matched the requested symbols/timeframes")
	}

	analysis.SortByWinRate(summaries)

	resultsPath := filepath.Join(a.Config.Data.ResultsDir, "analysis_results."+saver.Extension())
	if err := saver.SaveSummaries(resultsPath, summaries); err != nil {
		return err
	}
	a.Logger.Info().Str("path", resultsPath).Int("rows", len(summaries)).Msg("results written")

	topN := opts.TopN
	if topN <= 0 {
		topN = a.Config.Analysis.TopN
	}
	printSummaries(os.Stdout, summaries, topN)

	runAt := time.Now().UTC()
	if err := a.archiveSummaries(ctx, summaries, runAt); err != nil {
		return err
	}
	a.maybeAlert(ctx, summaries, runAt)

	return nil
}

// loadSeries reads one candle file, applying the symbol/timeframe filters
// and the intraday restriction. Unusable files are logged and skipped so a
// single bad download cannot kill a whole run.
func (a *App) loadSeries(path string, saver dataset.Saver, opts AnalyzeOptions) (market.Series, bool) {
	ref, err := dataset.ParseName(path)
	if err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("skipping unrecognized file")
		return market.Series{}, false
	}

	if len(opts.Symbols) > 0 && !contains(opts.Symbols, ref.Symbol) {
		return market.Series{}, false
	}
	if len(opts.Timeframes) > 0 && !contains(opts.Timeframes, ref.Timeframe) {
		return market.Series{}, false
	}

	intraday, err := market.IsIntraday(ref.Timeframe)
	if err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("skipping file with bad timeframe")
		return market.Series{}, false
	}
	if !intraday {
		a.Logger.Debug().Str("path", path).Msg("skipping non-intraday series")
		return market.Series{}, false
	}

	candles, err := saver.LoadCandles(path)
	if err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
		return market.Series{}, false
	}

	series := market.Series{
		Exchange:  ref.Exchange,
		Symbol:    ref.Symbol,
		Timeframe: ref.Timeframe,
		Candles:   candles,
	}
	if err := series.Validate(); err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("skipping inconsistent series")
		return market.Series{}, false
	}
	return series, true
}

func (a *App) archiveSummaries(ctx context.Context, summaries []analysis.Summary, runAt time.Time) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer closeStore()

	rows := make([]storage.SummaryRow, len(summaries))
	for i, s := range summaries {
		rows[i] = storage.RowFromSummary(s, runAt)
	}
	if err := store.UpsertSummaries(ctx, rows); err != nil {
		return err
	}
	a.Logger.Info().Int("rows", len(rows)).Msg("results archived")
	return nil
}

// maybeAlert pushes the best combination when it clears the configured
// thresholds. Alert delivery failures are logged, not fatal.
func (a *App) maybeAlert(ctx context.Context, summaries []analysis.Summary, runAt time.Time) {
	if !a.Config.Alerting.Enabled || len(summaries) == 0 {
		return
	}
	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("alerting enabled but no channel configured")
		return
	}

	best := summaries[0]
	if best.WinRate < a.Config.Alerting.MinWinRate || best.TotalEvents < a.Config.Alerting.MinEvents {
		return
	}

	note := alerting.Notification{
		RunAt:      runAt,
		Summary:    best,
		MinWinRate: decimal.NewFromFloat(a.Config.Alerting.MinWinRate),
		MinEvents:  a.Config.Alerting.MinEvents,
	}
	if err := notifier.Notify(ctx, note); err != nil {
		a.Logger.Error().Err(err).Msg("alert delivery failed")
	}
}

func printSummaries(out *os.File, summaries []analysis.Summary, topN int) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "no combination passed the significance gate")
		return
	}
	if topN > len(summaries) {
		topN = len(summaries)
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Symbol\tTF\tMA\tEvents\tWinRate%\tWins\tLosses\tAvgTT\tMedTT\tAvgAdv")
	for _, s := range summaries[:topN] {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s_%d\t%d\t%.2f\t%d\t%d\t%s\t%s\t%s\n",
			s.Symbol,
			s.Timeframe,
			s.MAType,
			s.Period,
			s.TotalEvents,
			s.WinRate,
			s.Wins,
			s.Losses,
			formatOptionalStat(s.AvgTimeToTarget, 2),
			formatOptionalStat(s.MedianTimeToTarget, 1),
			formatOptionalStat(s.AvgAdverseMax, 4),
		)
	}
	writer.Flush()
}

func formatOptionalStat(v *float64, places int32) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
