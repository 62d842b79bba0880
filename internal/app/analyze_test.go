package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wickscan/internal/analysis"
	"wickscan/internal/config"
	"wickscan/internal/dataset"
	"wickscan/internal/market"
)

func newTestApp(t *testing.T) (*App, string, string) {
	t.Helper()
	dataDir := t.TempDir()
	resultsDir := t.TempDir()

	cfg := &config.Config{
		Data: config.DataConfig{
			Dir:        dataDir,
			ResultsDir: resultsDir,
			Format:     "csv",
		},
		Exchange: config.ExchangeConfig{ID: "bybit"},
		Analysis: config.AnalysisConfig{
			Config: analysis.Config{
				PeriodMin:    2,
				PeriodMax:    2,
				MATypes:      []analysis.MAType{analysis.SMA},
				AlphaWick:    0.30,
				NPre:         1,
				NPost:        1,
				TargetPct:    0.01,
				MaxLookahead: 10,
				MinEvents:    1,
			},
			TopN: 10,
		},
		Export: config.ExportConfig{MaxDataPoints: 1000},
	}

	return NewApp(cfg, zerolog.Nop()), dataDir, resultsDir
}

// bounceCandles is a five-candle series with one isolated bullish touch of
// SMA_2 at position 2 that reaches its target on the next candle.
func bounceCandles(step time.Duration) []market.Candle {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ohlc := [][4]float64{
		{100, 100.5, 99.5, 100},
		{100, 100.5, 99.5, 100},
		{101.8, 102.1, 100.9, 102},
		{102.5, 103.5, 102.3, 103.4},
		{103.4, 104, 103, 103.8},
	}

	candles := make([]market.Candle, len(ohlc))
	for i, v := range ohlc {
		candles[i] = market.Candle{
			TS:     base.Add(time.Duration(i) * step),
			Open:   v[0],
			High:   v[1],
			Low:    v[2],
			Close:  v[3],
			Volume: 10,
		}
	}
	return candles
}

func writeCandleFile(t *testing.T, dir, symbol, timeframe string, candles []market.Candle) {
	t.Helper()
	path := filepath.Join(dir, dataset.FileName("bybit", symbol, timeframe, "csv"))
	if err := (dataset.CSVSaver{}).SaveCandles(path, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}
}

func readResults(t *testing.T, resultsDir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(resultsDir, "analysis_results.csv"))
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	return string(content)
}

func TestAnalyzeSkipsNonIntradaySeries(t *testing.T) {
	a, dataDir, resultsDir := newTestApp(t)
	writeCandleFile(t, dataDir, "BTC/USDT", "1h", bounceCandles(time.Hour))
	writeCandleFile(t, dataDir, "BTC/USDT", "1d", bounceCandles(24*time.Hour))

	if err := a.Analyze(context.Background(), AnalyzeOptions{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	results := readResults(t, resultsDir)
	if !strings.Contains(results, "BTC/USDT,1h,SMA,2") {
		t.Fatalf("hourly series missing from results:\n%s", results)
	}
	if strings.Contains(results, ",1d,") {
		t.Fatalf("daily series must not be swept:\n%s", results)
	}
}

func TestAnalyzeContinuesPastBadFiles(t *testing.T) {
	a, dataDir, resultsDir := newTestApp(t)
	writeCandleFile(t, dataDir, "BTC/USDT", "1h", bounceCandles(time.Hour))

	garbage := filepath.Join(dataDir, dataset.FileName("bybit", "ETH/USDT", "1h", "csv"))
	if err := os.WriteFile(garbage, []byte("not,a,candle\nfile,at,all\n"), 0o644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}

	if err := a.Analyze(context.Background(), AnalyzeOptions{}); err != nil {
		t.Fatalf("one bad file must not abort the sweep: %v", err)
	}

	results := readResults(t, resultsDir)
	if !strings.Contains(results, "BTC/USDT,1h,SMA,2") {
		t.Fatalf("healthy series missing from results:\n%s", results)
	}
	if strings.Contains(results, "ETH/USDT") {
		t.Fatalf("garbage file must not produce results:\n%s", results)
	}
}

func TestAnalyzeEmptySweepWritesEmptyTable(t *testing.T) {
	a, _, resultsDir := newTestApp(t)

	if err := a.Analyze(context.Background(), AnalyzeOptions{}); err != nil {
		t.Fatalf("empty data dir must not be an error: %v", err)
	}

	results := readResults(t, resultsDir)
	lines := strings.Split(strings.TrimSpace(results), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "symbol,timeframe,") {
		t.Fatalf("expected header-only result table, got:\n%s", results)
	}
}

func TestAnalyzeSymbolFilter(t *testing.T) {
	a, dataDir, resultsDir := newTestApp(t)
	writeCandleFile(t, dataDir, "BTC/USDT", "1h", bounceCandles(time.Hour))
	writeCandleFile(t, dataDir, "ETH/USDT", "1h", bounceCandles(time.Hour))

	opts := AnalyzeOptions{Symbols: []string{"ETH/USDT"}}
	if err := a.Analyze(context.Background(), opts); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	results := readResults(t, resultsDir)
	if !strings.Contains(results, "ETH/USDT") {
		t.Fatalf("requested symbol missing from results:\n%s", results)
	}
	if strings.Contains(results, "BTC/USDT") {
		t.Fatalf("filtered-out symbol present in results:\n%s", results)
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	a, dataDir, _ := newTestApp(t)
	writeCandleFile(t, dataDir, "BTC/USDT", "1h", bounceCandles(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Analyze(ctx, AnalyzeOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
