package analysis

import (
	"time"

	"wickscan/internal/market"
)

// Event records the simulated outcome of one isolated touch.
type Event struct {
	Position     int
	TS           time.Time
	Side         Side
	Reached      bool
	TimeToTarget *int
	AdverseMax   float64
}

// Simulate walks forward from the touch at position i until the target move
// is reached, the price retraces to the entry close (invalidation), or the
// lookahead horizon runs out. maxLookahead <= 0 means walk to the series end.
//
// Within a single forward candle the invalidation check runs before the
// target check, so a candle that does both counts as a failure. Adverse
// excursion accumulates only on candles that neither invalidate nor reach
// the target.
func Simulate(candles []market.Candle, i int, side Side, targetPct float64, maxLookahead int) Event {
	entry := candles[i].Close
	target := entry * (1 + float64(side)*targetPct)

	event := Event{
		Position: i,
		TS:       candles[i].TS,
		Side:     side,
	}

	limit := maxLookahead
	if limit <= 0 {
		limit = len(candles) - i - 1
	}

	for k := 1; k <= limit; k++ {
		if i+k >= len(candles) {
			break
		}
		forward := candles[i+k]

		var adverse float64
		if side == SideBullish {
			if forward.Low <= entry {
				return event
			}
			if forward.High >= target {
				event.Reached = true
				ttt := k
				event.TimeToTarget = &ttt
				return event
			}
			adverse = (entry - forward.Low) / entry
		} else {
			if forward.High >= entry {
				return event
			}
			if forward.Low <= target {
				event.Reached = true
				ttt := k
				event.TimeToTarget = &ttt
				return event
			}
			adverse = (forward.High - entry) / entry
		}

		if adverse > event.AdverseMax {
			event.AdverseMax = adverse
		}
	}

	return event
}
