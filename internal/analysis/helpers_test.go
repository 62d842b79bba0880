package analysis

import (
	"testing"
	"time"

	"wickscan/internal/market"
)

// candle builds a test candle with a synthetic timestamp derived from pos.
func candle(pos int, open, high, low, close float64) market.Candle {
	return market.Candle{
		TS:    time.Unix(int64(pos)*60, 0).UTC(),
		Open:  open,
		High:  high,
		Low:   low,
		Close: close,
	}
}

// flatCandles produces n identical zero-range candles at the given price.
func flatCandles(n int, price float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = candle(i, price, price, price, price)
	}
	return out
}

func testSeries(t *testing.T, candles []market.Candle) market.Series {
	t.Helper()
	s := market.Series{Exchange: "bybit", Symbol: "BTC/USDT", Timeframe: "1h", Candles: candles}
	if err := s.Validate(); err != nil {
		t.Fatalf("test series invalid: %v", err)
	}
	return s
}
