package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sequentialRows(n int) []exportRow {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]exportRow, n)
	for i := range rows {
		rows[i] = exportRow{
			TS:    base.Add(time.Duration(i) * time.Hour),
			Close: 100 + float64(i),
			MA:    100 + float64(i),
		}
	}
	return rows
}

func TestDownsampleRowsPassthrough(t *testing.T) {
	rows := sequentialRows(5)

	if got := downsampleRows(rows, 0); len(got) != 5 {
		t.Fatalf("max 0 must keep all rows, got %d", len(got))
	}
	if got := downsampleRows(rows, 10); len(got) != 5 {
		t.Fatalf("max above length must keep all rows, got %d", len(got))
	}
}

func TestDownsampleRowsSinglePoint(t *testing.T) {
	rows := sequentialRows(3)

	got := downsampleRows(rows, 1)
	if len(got) != 1 {
		t.Fatalf("max 1 must keep exactly one row, got %d", len(got))
	}
	if !got[0].TS.Equal(rows[0].TS) {
		t.Fatalf("max 1 must keep the first row, got %s", got[0].TS)
	}
}

func TestDownsampleRowsKeepsEndpoints(t *testing.T) {
	rows := sequentialRows(10)

	got := downsampleRows(rows, 4)
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
	if !got[0].TS.Equal(rows[0].TS) || !got[3].TS.Equal(rows[9].TS) {
		t.Fatalf("downsampling must keep the first and last rows, got %s .. %s", got[0].TS, got[3].TS)
	}
}

func TestExportWritesAnnotatedCSV(t *testing.T) {
	a, dataDir, _ := newTestApp(t)
	writeCandleFile(t, dataDir, "BTC/USDT", "1h", bounceCandles(time.Hour))

	csvPath := filepath.Join(t.TempDir(), "export.csv")
	opts := ExportOptions{
		Symbol:    "BTC/USDT",
		Timeframe: "1h",
		MAType:    "SMA",
		Period:    2,
		CSVPath:   csvPath,
	}
	if err := a.Export(context.Background(), opts); err != nil {
		t.Fatalf("Export: %v", err)
	}

	content, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "timestamp,close,ma,touch,isolated") {
		t.Fatalf("unexpected header:\n%s", text)
	}
	if !strings.Contains(text, "bullish,true") {
		t.Fatalf("isolated bullish touch missing from export:\n%s", text)
	}
	// SMA_2 is undefined at position 0, so the first candle is trimmed.
	if lines := strings.Split(strings.TrimSpace(text), "\n"); len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines:\n%s", len(lines), text)
	}
}

func TestExportRequiresOutput(t *testing.T) {
	a, _, _ := newTestApp(t)

	err := a.Export(context.Background(), ExportOptions{Symbol: "BTC/USDT", Timeframe: "1h", MAType: "SMA", Period: 2})
	if err == nil {
		t.Fatal("expected error when neither --csv nor --png is given")
	}
}
