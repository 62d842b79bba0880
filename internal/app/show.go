package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show lists the best archived combinations from the database, optionally
// pruning rows from runs older than a cutoff first.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show archived results")
	}
	defer closeStore()

	if opts.PruneBefore != nil {
		if err := store.DeleteSummariesBefore(ctx, *opts.PruneBefore); err != nil {
			return err
		}
		a.Logger.Info().
			Time("before", *opts.PruneBefore).
			Msg("pruned archived results")
	}

	total, err := store.CountSummaries(ctx)
	if err != nil {
		return err
	}

	rows, err := store.ListTopSummaries(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no archived results found")
		return nil
	}

	fmt.Fprintf(os.Stdout, "top %d of %d archived combinations\n", len(rows), total)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Symbol\tTF\tMA\tEvents\tWinRate%\tWins\tLosses\tAvgTT\tRun (UTC)")
	for _, row := range rows {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s_%d\t%d\t%s\t%d\t%d\t%s\t%s\n",
			row.Symbol,
			row.Timeframe,
			row.MAType,
			row.Period,
			row.TotalEvents,
			row.WinRate.StringFixed(2),
			row.Wins,
			row.Losses,
			formatOptionalStat(row.AvgTimeToTarget, 2),
			row.RunAt.UTC().Format(time.RFC3339),
		)
	}
	writer.Flush()
	return nil
}
