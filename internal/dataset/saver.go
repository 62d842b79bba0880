package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wickscan/internal/analysis"
	"wickscan/internal/market"
)

// Saver reads and writes candle files and writes result tables in one
// format. Saves always rewrite the whole file, so re-running a fetch or a
// sweep can never leave a partially appended artifact behind.
type Saver interface {
	SaveCandles(path string, candles []market.Candle) error
	LoadCandles(path string) ([]market.Candle, error)
	SaveSummaries(path string, summaries []analysis.Summary) error
	Extension() string
}

// NewSaver selects the Saver implementation for a format label.
func NewSaver(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "":
		return CSVSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("unsupported data format %q (use csv, json or parquet)", format)
	}
}

// ensureDir creates the parent directory of path when needed.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
