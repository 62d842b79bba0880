package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"wickscan/internal/analysis"
)

// SummaryRow is one archived sweep result for a parameter combination.
type SummaryRow struct {
	Symbol             string
	Timeframe          string
	MAType             string
	Period             int
	TotalEvents        int
	WinRate            decimal.Decimal
	Wins               int
	Losses             int
	AvgTimeToTarget    *float64
	MedianTimeToTarget *float64
	AvgAdverseMax      *float64
	RunAt              time.Time
	CreatedAt          time.Time
}

// RowFromSummary converts a sweep summary into its archive form.
func RowFromSummary(s analysis.Summary, runAt time.Time) SummaryRow {
	return SummaryRow{
		Symbol:             s.Symbol,
		Timeframe:          s.Timeframe,
		MAType:             string(s.MAType),
		Period:             s.Period,
		TotalEvents:        s.TotalEvents,
		WinRate:            decimal.NewFromFloat(s.WinRate),
		Wins:               s.Wins,
		Losses:             s.Losses,
		AvgTimeToTarget:    s.AvgTimeToTarget,
		MedianTimeToTarget: s.MedianTimeToTarget,
		AvgAdverseMax:      s.AvgAdverseMax,
		RunAt:              runAt,
	}
}
