package dataset

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"wickscan/internal/analysis"
	"wickscan/internal/market"
)

type parquetCandle struct {
	Timestamp int64   `parquet:"timestamp"` // unix milliseconds
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

type parquetSummary struct {
	Symbol             string   `parquet:"symbol"`
	Timeframe          string   `parquet:"timeframe"`
	MAType             string   `parquet:"ma_type"`
	Period             int32    `parquet:"period"`
	TotalEvents        int32    `parquet:"total_events"`
	WinRate            float64  `parquet:"win_rate"`
	Wins               int32    `parquet:"wins"`
	Losses             int32    `parquet:"losses"`
	AvgTimeToTarget    *float64 `parquet:"avg_time_to_target,optional"`
	MedianTimeToTarget *float64 `parquet:"median_time_to_target,optional"`
	AvgAdverseMax      *float64 `parquet:"avg_adverse_max,optional"`
}

// ParquetSaver stores candles and summaries in parquet files.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) SaveCandles(path string, candles []market.Candle) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	rows := make([]parquetCandle, len(candles))
	for i, c := range candles {
		rows[i] = parquetCandle{
			Timestamp: c.TS.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	return parquet.WriteFile(path, rows)
}

func (ParquetSaver) LoadCandles(path string) ([]market.Candle, error) {
	rows, err := parquet.ReadFile[parquetCandle](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	candles := make([]market.Candle, len(rows))
	for i, row := range rows {
		candles[i] = market.Candle{
			TS:     time.UnixMilli(row.Timestamp).UTC(),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}
	}
	return candles, nil
}

func (ParquetSaver) SaveSummaries(path string, summaries []analysis.Summary) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	rows := make([]parquetSummary, len(summaries))
	for i, s := range summaries {
		rows[i] = parquetSummary{
			Symbol:             s.Symbol,
			Timeframe:          s.Timeframe,
			MAType:             string(s.MAType),
			Period:             int32(s.Period),
			TotalEvents:        int32(s.TotalEvents),
			WinRate:            s.WinRate,
			Wins:               int32(s.Wins),
			Losses:             int32(s.Losses),
			AvgTimeToTarget:    s.AvgTimeToTarget,
			MedianTimeToTarget: s.MedianTimeToTarget,
			AvgAdverseMax:      s.AvgAdverseMax,
		}
	}
	return parquet.WriteFile(path, rows)
}
