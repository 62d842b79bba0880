package fetcher

import (
	"context"
	"time"

	"wickscan/internal/market"
)

// CandleFetcher pages historical candles from an exchange venue. One call
// returns at most limit candles at or after since, in timestamp ascending
// order; an empty result means no data remains past the cursor.
type CandleFetcher interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, since time.Time, limit int) ([]market.Candle, error)
}
