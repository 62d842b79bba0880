package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"wickscan/internal/market"
)

func newTestSweeper(t *testing.T, cfg Config) *Sweeper {
	t.Helper()
	s, err := NewSweeper(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	return s
}

func baseConfig() Config {
	return Config{
		PeriodMin:    2,
		PeriodMax:    2,
		MATypes:      []MAType{SMA},
		AlphaWick:    0.30,
		NPre:         1,
		NPost:        1,
		TargetPct:    0.01,
		MaxLookahead: 10,
		MinEvents:    1,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	invalid := []func(*Config){
		func(c *Config) { c.PeriodMin = 0 },
		func(c *Config) { c.PeriodMax = c.PeriodMin - 1 },
		func(c *Config) { c.MATypes = nil },
		func(c *Config) { c.MATypes = []MAType{"WMA"} },
		func(c *Config) { c.AlphaWick = -0.1 },
		func(c *Config) { c.AlphaWick = 1.1 },
		func(c *Config) { c.NPre = -1 },
		func(c *Config) { c.TargetPct = 0 },
		func(c *Config) { c.MaxLookahead = -1 },
		func(c *Config) { c.MinEvents = -1 },
	}

	for i, mutate := range invalid {
		cfg := baseConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("mutation %d should fail validation", i)
		}
	}
}

func TestSweepFlatSeriesYieldsNothing(t *testing.T) {
	cfg := baseConfig()
	cfg.PeriodMax = 10
	cfg.MATypes = []MAType{SMA, EMA}
	cfg.MinEvents = 1
	sweeper := newTestSweeper(t, cfg)

	// Zero-range candles can never produce a wick touch.
	series := testSeries(t, flatCandles(50, 100))
	if got := sweeper.SweepSeries(series); len(got) != 0 {
		t.Fatalf("flat series should yield no summaries, got %d", len(got))
	}
}

func TestSweepSingleBounce(t *testing.T) {
	candles := []market.Candle{
		candle(0, 100, 100.5, 99.5, 100),
		candle(1, 100, 100.5, 99.5, 100),
		candle(2, 101.8, 102.1, 100.9, 102), // isolated bullish touch of SMA_2 = 101
		candle(3, 102.5, 103.5, 102.3, 103.4),
		candle(4, 103.4, 104, 103, 103.8),
	}
	series := testSeries(t, candles)

	sweeper := newTestSweeper(t, baseConfig())
	summaries := sweeper.SweepSeries(series)

	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.Symbol != "BTC/USDT" || s.Timeframe != "1h" || s.MAType != SMA || s.Period != 2 {
		t.Fatalf("identity fields wrong: %+v", s)
	}
	if s.TotalEvents != 1 || s.Wins != 1 || s.Losses != 0 || s.WinRate != 100 {
		t.Fatalf("statistics wrong: %+v", s)
	}
	if s.AvgTimeToTarget == nil || *s.AvgTimeToTarget != 1 {
		t.Fatalf("time to target wrong: %+v", s)
	}
}

func TestSweeperCanonicalizesMATypes(t *testing.T) {
	candles := []market.Candle{
		candle(0, 100, 100.5, 99.5, 100),
		candle(1, 100, 100.5, 99.5, 100),
		candle(2, 101.8, 102.1, 100.9, 102),
		candle(3, 102.5, 103.5, 102.3, 103.4),
		candle(4, 103.4, 104, 103, 103.8),
	}
	series := testSeries(t, candles)

	// Lowercase labels pass validation and must behave and report exactly
	// like their canonical forms.
	cfg := baseConfig()
	cfg.MATypes = []MAType{"sma"}
	summaries := newTestSweeper(t, cfg).SweepSeries(series)

	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	if summaries[0].MAType != SMA {
		t.Fatalf("MAType = %q, want canonical %q", summaries[0].MAType, SMA)
	}
}

func TestSweepSignificanceGate(t *testing.T) {
	candles := []market.Candle{
		candle(0, 100, 100.5, 99.5, 100),
		candle(1, 100, 100.5, 99.5, 100),
		candle(2, 101.8, 102.1, 100.9, 102),
		candle(3, 102.5, 103.5, 102.3, 103.4),
		candle(4, 103.4, 104, 103, 103.8),
	}
	series := testSeries(t, candles)

	cfg := baseConfig()
	cfg.MinEvents = 10 // more than the single event the series produces
	sweeper := newTestSweeper(t, cfg)

	if got := sweeper.SweepSeries(series); len(got) != 0 {
		t.Fatalf("combination below the significance gate should be suppressed, got %d summaries", len(got))
	}
}

func TestSweepTrimsUndefinedPrefix(t *testing.T) {
	// A series shorter than the period trims to nothing and yields no
	// summaries instead of failing.
	cfg := baseConfig()
	cfg.PeriodMin = 50
	cfg.PeriodMax = 50
	cfg.MinEvents = 0
	sweeper := newTestSweeper(t, cfg)

	series := testSeries(t, flatCandles(10, 100))
	if got := sweeper.SweepSeries(series); len(got) != 0 {
		t.Fatalf("all-undefined average should yield nothing, got %d", len(got))
	}
}

func TestSweepWorkersDeterministic(t *testing.T) {
	candles := make([]market.Candle, 300)
	for i := range candles {
		base := 100 + 10*math.Sin(float64(i)/7) + 3*math.Sin(float64(i)/3)
		next := 100 + 10*math.Sin(float64(i+1)/7) + 3*math.Sin(float64(i+1)/3)
		high := math.Max(base, next) + 1.5
		low := math.Min(base, next) - 1.5
		candles[i] = candle(i, base, high, low, next)
	}
	series := testSeries(t, candles)

	cfg := baseConfig()
	cfg.PeriodMin = 2
	cfg.PeriodMax = 20
	cfg.MATypes = []MAType{SMA, EMA}
	cfg.MinEvents = 1

	sequential := newTestSweeper(t, cfg).SweepSeries(series)

	cfg.Workers = 4
	parallel := newTestSweeper(t, cfg).SweepSeries(series)

	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatal("parallel sweep must produce identical ordered results")
	}
}

func TestSortByWinRate(t *testing.T) {
	summaries := []Summary{
		{Period: 1, WinRate: 40},
		{Period: 2, WinRate: 90},
		{Period: 3, WinRate: 40},
		{Period: 4, WinRate: 75.5},
	}

	SortByWinRate(summaries)

	wantPeriods := []int{2, 4, 1, 3} // descending, ties keep sweep order
	for i, want := range wantPeriods {
		if summaries[i].Period != want {
			t.Fatalf("position %d: period %d, want %d", i, summaries[i].Period, want)
		}
	}
}
