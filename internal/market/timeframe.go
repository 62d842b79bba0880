package market

import (
	"fmt"
	"strconv"
	"time"
)

const daySeconds = 86400

var unitSeconds = map[byte]int64{
	'm': 60,
	'h': 3600,
	'd': daySeconds,
	'w': 604800,
}

// TimeframeSeconds parses a magnitude+unit label such as "1m", "15m", "4h",
// "1d" or "1w" into its duration in seconds.
func TimeframeSeconds(tf string) (int64, error) {
	if len(tf) < 2 {
		return 0, fmt.Errorf("invalid timeframe %q", tf)
	}

	unit := tf[len(tf)-1]
	mult, ok := unitSeconds[unit]
	if !ok {
		return 0, fmt.Errorf("invalid timeframe unit in %q", tf)
	}

	magnitude, err := strconv.Atoi(tf[:len(tf)-1])
	if err != nil || magnitude <= 0 {
		return 0, fmt.Errorf("invalid timeframe magnitude in %q", tf)
	}

	return int64(magnitude) * mult, nil
}

// TimeframeDuration is TimeframeSeconds expressed as a time.Duration.
func TimeframeDuration(tf string) (time.Duration, error) {
	seconds, err := TimeframeSeconds(tf)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// IsIntraday reports whether the timeframe is strictly shorter than one day.
// Only intraday series are eligible for the bounce sweep.
func IsIntraday(tf string) (bool, error) {
	seconds, err := TimeframeSeconds(tf)
	if err != nil {
		return false, err
	}
	return seconds < daySeconds, nil
}
