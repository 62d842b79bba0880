package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"wickscan/internal/analysis"
	"wickscan/internal/dataset"
	"wickscan/internal/market"
)

// exportRow is one annotated candle of the export window.
type exportRow struct {
	TS       time.Time
	Close    float64
	MA       float64
	Side     analysis.Side
	Isolated bool
}

// Export renders one (symbol, timeframe, type, period) combination as CSV
// and/or a PNG chart: close price, the moving average, and the isolated
// touch events found along the way.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	maType, err := analysis.ParseMAType(opts.MAType)
	if err != nil {
		return err
	}
	if opts.Period < 1 {
		return errors.New("--period must be at least 1")
	}

	saver, err := a.newSaver()
	if err != nil {
		return err
	}

	path := filepath.Join(a.Config.Data.Dir, dataset.FileName(a.Config.Exchange.ID, opts.Symbol, opts.Timeframe, saver.Extension()))
	candles, err := saver.LoadCandles(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	series := market.Series{
		Exchange:  a.Config.Exchange.ID,
		Symbol:    opts.Symbol,
		Timeframe: opts.Timeframe,
		Candles:   candles,
	}
	if err := series.Validate(); err != nil {
		return err
	}

	rows := a.buildExportRows(series, maType, opts.Period)
	if len(rows) == 0 {
		a.Logger.Info().Msg("no exportable candles (period longer than series)")
		return nil
	}

	maxPoints := a.Config.ResolveMaxPoints(opts.MaxPoints)
	downsampled := downsampleRows(rows, maxPoints)
	a.Logger.Info().Int("total", len(rows)).Int("exported", len(downsampled)).Msg("exporting series")

	if opts.CSVPath != "" {
		if err := writeRowsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		label := fmt.Sprintf("%s %s %s_%d", opts.Symbol, opts.Timeframe, maType, opts.Period)
		if err := writeRowsPNG(opts.PNGPath, label, downsampled); err != nil {
			return err
		}
	}

	return nil
}

// buildExportRows trims the undefined moving-average prefix and annotates
// every remaining candle with its touch classification.
func (a *App) buildExportRows(series market.Series, maType analysis.MAType, period int) []exportRow {
	averages := analysis.ComputeMA(series.Closes(), period, maType)

	start := len(averages)
	for i, v := range averages {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	candles := series.Candles[start:]
	averages = averages[start:]

	cfg := a.Config.Analysis.Config
	touches := analysis.ClassifySeries(candles, averages, cfg.AlphaWick)

	rows := make([]exportRow, len(candles))
	for i, c := range candles {
		rows[i] = exportRow{
			TS:       c.TS,
			Close:    c.Close,
			MA:       averages[i],
			Side:     touches[i],
			Isolated: touches[i] != analysis.SideNone && analysis.Isolated(touches, i, cfg.NPre, cfg.NPost),
		}
	}
	return rows
}

func downsampleRows(rows []exportRow, max int) []exportRow {
	if max <= 0 || len(rows) <= max {
		return rows
	}
	if max == 1 {
		return rows[:1]
	}

	result := make([]exportRow, 0, max)
	step := float64(len(rows)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		result = append(result, rows[idx])
	}
	return result
}

func writeRowsCSV(path string, rows []exportRow) error {
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

	header := []string{"timestamp", "close", "ma", "touch", "isolated"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.TS.UTC().Format(time.RFC3339),
			strconv.FormatFloat(row.Close, 'f', -1, 64),
			strconv.FormatFloat(row.MA, 'f', -1, 64),
			row.Side.String(),
			strconv.FormatBool(row.Isolated),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeRowsPNG(path, label string, rows []exportRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(rows))
	closes := make([]float64, len(rows))
	averages := make([]float64, len(rows))
	var events []chart.Value2

	for i, row := range rows {
		x[i] = row.TS
		closes[i] = row.Close
		averages[i] = row.MA
		if row.Isolated {
			events = append(events, chart.Value2{
				XValue: chart.TimeToFloat64(row.TS),
				YValue: row.Close,
				Label:  row.Side.String(),
			})
		}
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: x,
			YValues: closes,
		},
		chart.TimeSeries{
			Name:    label,
			XValues: x,
			YValues: averages,
		},
	}
	if len(events) > 0 {
		series = append(series, chart.AnnotationSeries{
			Name:        "Bounce",
			Annotations: events,
		})
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
