package market

import (
	"fmt"
	"time"
)

// Candle is a single OHLCV bar. Immutable once loaded.
type Candle struct {
	TS     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns the full candle extent including wicks.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// BodyLow returns the lower edge of the candle body.
func (c Candle) BodyLow() float64 {
	if c.Open < c.Close {
		return c.Open
	}
	return c.Close
}

// BodyHigh returns the upper edge of the candle body.
func (c Candle) BodyHigh() float64 {
	if c.Open > c.Close {
		return c.Open
	}
	return c.Close
}

// Valid reports whether the OHLC values are internally consistent.
func (c Candle) Valid() bool {
	return c.Low <= c.BodyLow() && c.BodyHigh() <= c.High
}

// Series is an ordered candle sequence for one (exchange, symbol, timeframe).
// Candles are sorted by timestamp ascending with no duplicates.
type Series struct {
	Exchange  string
	Symbol    string
	Timeframe string
	Candles   []Candle
}

// Closes extracts the closing prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Validate checks candle sanity and timestamp ordering for the whole series.
func (s Series) Validate() error {
	for i, c := range s.Candles {
		if !c.Valid() {
			return fmt.Errorf("candle %d (%s): inconsistent OHLC values", i, c.TS.Format(time.RFC3339))
		}
		if i > 0 && !s.Candles[i-1].TS.Before(c.TS) {
			return fmt.Errorf("candle %d (%s): timestamps not strictly ascending", i, c.TS.Format(time.RFC3339))
		}
	}
	return nil
}
