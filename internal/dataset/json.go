package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wickscan/internal/analysis"
	"wickscan/internal/market"
)

type jsonCandle struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type jsonSummary struct {
	Symbol             string   `json:"symbol"`
	Timeframe          string   `json:"timeframe"`
	MAType             string   `json:"ma_type"`
	Period             int      `json:"period"`
	TotalEvents        int      `json:"total_events"`
	WinRate            float64  `json:"win_rate"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	AvgTimeToTarget    *float64 `json:"avg_time_to_target"`
	MedianTimeToTarget *float64 `json:"median_time_to_target"`
	AvgAdverseMax      *float64 `json:"avg_adverse_max"`
}

// JSONSaver stores candles and summaries as indented JSON arrays.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) SaveCandles(path string, candles []market.Candle) error {
	rows := make([]jsonCandle, len(candles))
	for i, c := range candles {
		rows[i] = jsonCandle{
			Timestamp: c.TS.UTC().Format(time.RFC3339),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	return writeJSON(path, rows)
}

func (JSONSaver) LoadCandles(path string) ([]market.Candle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []jsonCandle
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	candles := make([]market.Candle, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse timestamp: %w", i, err)
		}
		candles[i] = market.Candle{
			TS:     ts.UTC(),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}
	}
	return candles, nil
}

func (JSONSaver) SaveSummaries(path string, summaries []analysis.Summary) error {
	rows := make([]jsonSummary, len(summaries))
	for i, s := range summaries {
		rows[i] = jsonSummary{
			Symbol:             s.Symbol,
			Timeframe:          s.Timeframe,
			MAType:             string(s.MAType),
			Period:             s.Period,
			TotalEvents:        s.TotalEvents,
			WinRate:            s.WinRate,
			Wins:               s.Wins,
			Losses:             s.Losses,
			AvgTimeToTarget:    s.AvgTimeToTarget,
			MedianTimeToTarget: s.MedianTimeToTarget,
			AvgAdverseMax:      s.AvgAdverseMax,
		}
	}
	return writeJSON(path, rows)
}

func writeJSON(path string, rows any) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}
