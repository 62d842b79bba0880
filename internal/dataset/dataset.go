// Package dataset handles candle and result files on disk. Candle files are
// named <exchange>_<symbol>_<timeframe>.<ext> with "/" in symbols flattened
// to "_"; three interchangeable formats (csv, json, parquet) sit behind the
// Saver interface.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ref identifies one candle file and the series it holds.
type Ref struct {
	Path      string
	Exchange  string
	Symbol    string
	Timeframe string
}

// FileName builds the canonical candle file name for a series.
func FileName(exchange, symbol, timeframe, ext string) string {
	safeSymbol := strings.ReplaceAll(symbol, "/", "_")
	return fmt.Sprintf("%s_%s_%s.%s", exchange, safeSymbol, timeframe, ext)
}

// ParseName recovers the series identity from a candle file path. Symbols
// containing "_" (flattened pairs like BTC_USDT) are restored with "/".
func ParseName(path string) (Ref, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return Ref{}, fmt.Errorf("unparseable candle file name %q", base)
	}

	return Ref{
		Path:      path,
		Exchange:  parts[0],
		Symbol:    strings.Join(parts[1:len(parts)-1], "/"),
		Timeframe: parts[len(parts)-1],
	}, nil
}

// Scan lists candle files with the given extension in dir, sorted by name.
// A missing directory is treated as empty.
func Scan(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan data dir: %w", err)
	}

	var paths []string
	suffix := "." + ext
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
