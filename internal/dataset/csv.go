package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"wickscan/internal/analysis"
	"wickscan/internal/market"
)

var candleHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

var summaryHeader = []string{
	"symbol", "timeframe", "ma_type", "period",
	"total_events", "win_rate", "wins", "losses",
	"avg_time_to_target", "median_time_to_target", "avg_adverse_max",
}

// CSVSaver stores candles and summaries as comma separated files.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) SaveCandles(path string, candles []market.Candle) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(candleHeader); err != nil {
		return err
	}
	for _, c := range candles {
		record := []string{
			c.TS.UTC().Format(time.RFC3339),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.Volume),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (CSVSaver) LoadCandles(path string) ([]market.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	candles := make([]market.Candle, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(candleHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, len(candleHeader), len(record))
		}

		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse timestamp: %w", i+1, err)
		}

		values := make([]float64, 5)
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %s: %w", i+1, candleHeader[j+1], err)
			}
			values[j] = v
		}

		candles = append(candles, market.Candle{
			TS:     ts.UTC(),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	return candles, nil
}

func (CSVSaver) SaveSummaries(path string, summaries []analysis.Summary) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.Symbol,
			s.Timeframe,
			string(s.MAType),
			strconv.Itoa(s.Period),
			strconv.Itoa(s.TotalEvents),
			formatFloat(s.WinRate),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			formatOptional(s.AvgTimeToTarget),
			formatOptional(s.MedianTimeToTarget),
			formatOptional(s.AvgAdverseMax),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
