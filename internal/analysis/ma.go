package analysis

import (
	"fmt"
	"math"
	"strings"
)

// MAType selects the moving-average flavour used in a sweep combination.
type MAType string

const (
	SMA MAType = "SMA"
	EMA MAType = "EMA"
)

// ParseMAType normalises a user supplied moving-average type label.
func ParseMAType(s string) (MAType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SMA):
		return SMA, nil
	case string(EMA):
		return EMA, nil
	default:
		return "", fmt.Errorf("unknown moving-average type %q", s)
	}
}

// ComputeMA produces a moving-average series aligned position-for-position
// with closes. Positions where the average is not yet available hold NaN;
// the simple average is undefined for the first period-1 positions, the
// exponential average is defined everywhere. The type label is normalised
// first, so "ema" from a config file selects the exponential average.
func ComputeMA(closes []float64, period int, maType MAType) []float64 {
	if normalized, err := ParseMAType(string(maType)); err == nil {
		maType = normalized
	}
	switch maType {
	case EMA:
		return computeEMA(closes, period)
	default:
		return computeSMA(closes, period)
	}
}

func computeSMA(closes []float64, period int) []float64 {
	values := make([]float64, len(closes))
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			values[i] = sum / float64(period)
		} else {
			values[i] = math.NaN()
		}
	}
	return values
}

func computeEMA(closes []float64, period int) []float64 {
	values := make([]float64, len(closes))
	if len(closes) == 0 {
		return values
	}

	alpha := 2.0 / float64(period+1)
	values[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		values[i] = alpha*closes[i] + (1-alpha)*values[i-1]
	}
	return values
}

// firstDefined returns the first position with an available average value,
// or len(values) when every position is undefined.
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return len(values)
}
