package analysis

import (
	"math"
	"sort"
)

// Summary aggregates the outcomes for one (symbol, timeframe, type, period)
// combination.
type Summary struct {
	Symbol             string
	Timeframe          string
	MAType             MAType
	Period             int
	TotalEvents        int
	WinRate            float64
	Wins               int
	Losses             int
	AvgTimeToTarget    *float64
	MedianTimeToTarget *float64
	AvgAdverseMax      *float64
}

// Aggregate reduces an event list into summary statistics. Identity fields
// (symbol, timeframe, type, period) are left to the caller. Time-to-target
// statistics cover only reached events; the adverse-excursion mean covers
// every event.
func Aggregate(events []Event) Summary {
	summary := Summary{TotalEvents: len(events)}
	if len(events) == 0 {
		return summary
	}

	var times []float64
	var adverseSum float64
	for _, ev := range events {
		adverseSum += ev.AdverseMax
		if ev.Reached {
			summary.Wins++
			if ev.TimeToTarget != nil {
				times = append(times, float64(*ev.TimeToTarget))
			}
		} else {
			summary.Losses++
		}
	}

	summary.WinRate = round2(100 * float64(summary.Wins) / float64(summary.TotalEvents))

	if len(times) > 0 {
		avg := mean(times)
		med := median(times)
		summary.AvgTimeToTarget = &avg
		summary.MedianTimeToTarget = &med
	}

	avgAdverse := round4(adverseSum / float64(summary.TotalEvents))
	summary.AvgAdverseMax = &avgAdverse

	return summary
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
