package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"wickscan/internal/market"
)

// Config holds the bounce-analysis parameters for one sweep run.
type Config struct {
	PeriodMin    int      `mapstructure:"ma_period_min"`
	PeriodMax    int      `mapstructure:"ma_period_max"`
	MATypes      []MAType `mapstructure:"ma_types"`
	AlphaWick    float64  `mapstructure:"alpha_wick"`
	NPre         int      `mapstructure:"n_pre"`
	NPost        int      `mapstructure:"n_post"`
	TargetPct    float64  `mapstructure:"target_pct"`
	MaxLookahead int      `mapstructure:"max_lookahead"`
	MinEvents    int      `mapstructure:"min_events_for_significance"`
	Workers      int      `mapstructure:"workers"`
}

// Validate checks the sweep parameters before any work starts.
func (c Config) Validate() error {
	if c.PeriodMin < 1 {
		return fmt.Errorf("ma_period_min must be at least 1")
	}
	if c.PeriodMax < c.PeriodMin {
		return fmt.Errorf("ma_period_max must be >= ma_period_min")
	}
	if len(c.MATypes) == 0 {
		return fmt.Errorf("ma_types must not be empty")
	}
	for _, t := range c.MATypes {
		if _, err := ParseMAType(string(t)); err != nil {
			return err
		}
	}
	if c.AlphaWick < 0 || c.AlphaWick > 1 {
		return fmt.Errorf("alpha_wick must be within [0,1]")
	}
	if c.NPre < 0 || c.NPost < 0 {
		return fmt.Errorf("n_pre and n_post cannot be negative")
	}
	if c.TargetPct <= 0 {
		return fmt.Errorf("target_pct must be greater than zero")
	}
	if c.MaxLookahead < 0 {
		return fmt.Errorf("max_lookahead must be zero (unbounded) or positive")
	}
	if c.MinEvents < 0 {
		return fmt.Errorf("min_events_for_significance cannot be negative")
	}
	return nil
}

// Sweeper evaluates the full period x type cross-product over candle series.
type Sweeper struct {
	cfg    Config
	logger zerolog.Logger
}

// NewSweeper validates the configuration and constructs a Sweeper. MA type
// labels are canonicalised so summaries always carry "SMA"/"EMA" regardless
// of the casing the config supplied.
func NewSweeper(cfg Config, logger zerolog.Logger) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	types := make([]MAType, len(cfg.MATypes))
	for i, label := range cfg.MATypes {
		parsed, err := ParseMAType(string(label))
		if err != nil {
			return nil, err
		}
		types[i] = parsed
	}
	cfg.MATypes = types
	return &Sweeper{cfg: cfg, logger: logger.With().Str("component", "sweeper").Logger()}, nil
}

type combo struct {
	period int
	maType MAType
}

// SweepSeries runs every (period, type) combination against one series and
// returns the summaries that pass the significance gate, ordered by period
// then type. Combinations are independent, so they fan out across workers
// when configured.
func (s *Sweeper) SweepSeries(series market.Series) []Summary {
	var combos []combo
	for period := s.cfg.PeriodMin; period <= s.cfg.PeriodMax; period++ {
		for _, maType := range s.cfg.MATypes {
			combos = append(combos, combo{period: period, maType: maType})
		}
	}

	results := make([]*Summary, len(combos))
	workers := s.cfg.Workers
	if workers <= 1 {
		for i, c := range combos {
			results[i] = s.evaluateCombo(series, c)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = s.evaluateCombo(series, combos[i])
				}
			}()
		}
		for i := range combos {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var summaries []Summary
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries
}

// evaluateCombo runs one (period, type) combination, returning nil when the
// combination produced too few events to be significant.
func (s *Sweeper) evaluateCombo(series market.Series, c combo) *Summary {
	averages := ComputeMA(series.Closes(), c.period, c.maType)

	// Positions with an undefined average are dropped before scanning, so
	// isolation windows and lookahead operate on the trimmed series.
	offset := firstDefined(averages)
	candles := series.Candles[offset:]
	averages = averages[offset:]
	if len(candles) == 0 {
		return nil
	}

	touches := ClassifySeries(candles, averages, s.cfg.AlphaWick)

	var events []Event
	for i, touch := range touches {
		if touch == SideNone {
			continue
		}
		if !Isolated(touches, i, s.cfg.NPre, s.cfg.NPost) {
			continue
		}
		events = append(events, Simulate(candles, i, touch, s.cfg.TargetPct, s.cfg.MaxLookahead))
	}

	if len(events) < s.cfg.MinEvents {
		return nil
	}

	summary := Aggregate(events)
	summary.Symbol = series.Symbol
	summary.Timeframe = series.Timeframe
	summary.MAType = c.maType
	summary.Period = c.period

	s.logger.Debug().
		Str("symbol", series.Symbol).
		Str("timeframe", series.Timeframe).
		Str("ma_type", string(c.maType)).
		Int("period", c.period).
		Int("events", summary.TotalEvents).
		Float64("win_rate", summary.WinRate).
		Msg("combination evaluated")

	return &summary
}

// SortByWinRate orders summaries by win rate descending, keeping the sweep
// order for ties.
func SortByWinRate(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].WinRate > summaries[j].WinRate
	})
}
