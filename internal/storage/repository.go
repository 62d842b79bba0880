package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	upsertSummarySQL = `INSERT INTO bounce_summaries (
        symbol,
        timeframe,
        ma_type,
        period,
        total_events,
        win_rate,
        wins,
        losses,
        avg_time_to_target,
        median_time_to_target,
        avg_adverse_max,
        run_at
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
    )
    ON CONFLICT (symbol, timeframe, ma_type, period) DO UPDATE
    SET
        total_events          = EXCLUDED.total_events,
        win_rate              = EXCLUDED.win_rate,
        wins                  = EXCLUDED.wins,
        losses                = EXCLUDED.losses,
        avg_time_to_target    = EXCLUDED.avg_time_to_target,
        median_time_to_target = EXCLUDED.median_time_to_target,
        avg_adverse_max       = EXCLUDED.avg_adverse_max,
        run_at                = EXCLUDED.run_at;`

	listTopSummariesSQL = `SELECT
        symbol,
        timeframe,
        ma_type,
        period,
        total_events,
        win_rate,
        wins,
        losses,
        avg_time_to_target,
        median_time_to_target,
        avg_adverse_max,
        run_at,
        created_at
    FROM bounce_summaries
    ORDER BY win_rate DESC, symbol, timeframe, ma_type, period
    LIMIT $1;`

	countSummariesSQL = `SELECT COUNT(*) FROM bounce_summaries;`

	deleteSummariesBeforeSQL = `DELETE FROM bounce_summaries WHERE run_at < $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// SummaryStore defines operations for sweep-result archiving.
type SummaryStore interface {
	UpsertSummaries(ctx context.Context, rows []SummaryRow) error
	ListTopSummaries(ctx context.Context, limit int) ([]SummaryRow, error)
	CountSummaries(ctx context.Context) (int64, error)
	DeleteSummariesBefore(ctx context.Context, olderThan time.Time) error
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to archived summaries.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// UpsertSummaries persists every row of one sweep run in a transaction.
func (s *Store) UpsertSummaries(ctx context.Context, rows []SummaryRow) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin summary upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx, upsertSummarySQL,
			row.Symbol,
			row.Timeframe,
			row.MAType,
			row.Period,
			row.TotalEvents,
			row.WinRate,
			row.Wins,
			row.Losses,
			row.AvgTimeToTarget,
			row.MedianTimeToTarget,
			row.AvgAdverseMax,
			row.RunAt,
		); err != nil {
			return fmt.Errorf("upsert summary %s %s %s %d: %w", row.Symbol, row.Timeframe, row.MAType, row.Period, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit summary upsert: %w", err)
	}
	return nil
}

// ListTopSummaries returns the archived rows ranked by win rate descending.
func (s *Store) ListTopSummaries(ctx context.Context, limit int) ([]SummaryRow, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listTopSummariesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(
			&row.Symbol,
			&row.Timeframe,
			&row.MAType,
			&row.Period,
			&row.TotalEvents,
			&row.WinRate,
			&row.Wins,
			&row.Losses,
			&row.AvgTimeToTarget,
			&row.MedianTimeToTarget,
			&row.AvgAdverseMax,
			&row.RunAt,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountSummaries reports how many combinations are archived.
func (s *Store) CountSummaries(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := pool.QueryRow(ctx, countSummariesSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return count, nil
}

// DeleteSummariesBefore prunes rows from runs older than the cutoff.
func (s *Store) DeleteSummariesBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, deleteSummariesBeforeSQL, olderThan); err != nil {
		return fmt.Errorf("delete summaries: %w", err)
	}
	return nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

var (
	_ SummaryStore   = (*Store)(nil)
	_ AdvisoryLocker = (*Store)(nil)
)
