package market

import (
	"testing"
	"time"
)

// mustCandles builds candles from (unix seconds, open, high, low, close) rows.
func mustCandles(t *testing.T, rows [][5]float64) []Candle {
	t.Helper()
	out := make([]Candle, len(rows))
	for i, r := range rows {
		out[i] = Candle{
			TS:    time.Unix(int64(r[0]), 0).UTC(),
			Open:  r[1],
			High:  r[2],
			Low:   r[3],
			Close: r[4],
		}
	}
	return out
}
