package analysis

import (
	"math"

	"wickscan/internal/market"
)

// Side labels the direction of a wick touch.
type Side int

const (
	SideNone    Side = 0
	SideBullish Side = 1
	SideBearish Side = -1
)

func (s Side) String() string {
	switch s {
	case SideBullish:
		return "bullish"
	case SideBearish:
		return "bearish"
	default:
		return "none"
	}
}

// ClassifyTouch decides whether the candle's wick, and only its wick,
// touches the moving-average value. A bullish touch has the body entirely
// above the average with the lower wick reaching it; a bearish touch is the
// mirror image. The qualifying wick must be at least alphaWick of the full
// candle range.
func ClassifyTouch(c market.Candle, ma float64, alphaWick float64) Side {
	if math.IsNaN(ma) {
		return SideNone
	}

	candleSize := c.Range()
	if candleSize <= 0 {
		return SideNone
	}

	bodyLow := c.BodyLow()
	bodyHigh := c.BodyHigh()
	lowerWick := bodyLow - c.Low
	upperWick := c.High - bodyHigh
	minWick := alphaWick * candleSize

	if bodyLow > ma && c.Low <= ma && lowerWick >= minWick {
		return SideBullish
	}
	if bodyHigh < ma && c.High >= ma && upperWick >= minWick {
		return SideBearish
	}

	return SideNone
}

// ClassifySeries evaluates every position of a candle series against its
// aligned average series.
func ClassifySeries(candles []market.Candle, averages []float64, alphaWick float64) []Side {
	touches := make([]Side, len(candles))
	for i, c := range candles {
		touches[i] = ClassifyTouch(c, averages[i], alphaWick)
	}
	return touches
}
