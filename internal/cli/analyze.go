package cli

import (
	"github.com/spf13/cobra"

	"wickscan/internal/analysis"
	"wickscan/internal/app"
)

var (
	analyzeSymbols      []string
	analyzeTimeframes   []string
	analyzeMAMin        int
	analyzeMAMax        int
	analyzeMATypes      []string
	analyzeAlphaWick    float64
	analyzeNPre         int
	analyzeNPost        int
	analyzeTarget       float64
	analyzeMaxLookahead int
	analyzeMinEvents    int
	analyzeWorkers      int
	analyzeTop          int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the bounce sweep over downloaded candle files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		cfg := &a.Config.Analysis.Config

		if cmd.Flags().Changed("ma-min") {
			cfg.PeriodMin = analyzeMAMin
		}
		if cmd.Flags().Changed("ma-max") {
			cfg.PeriodMax = analyzeMAMax
		}
		if cmd.Flags().Changed("ma-types") {
			types := make([]analysis.MAType, 0, len(analyzeMATypes))
			for _, label := range analyzeMATypes {
				parsed, err := analysis.ParseMAType(label)
				if err != nil {
					return err
				}
				types = append(types, parsed)
			}
			cfg.MATypes = types
		}
		if cmd.Flags().Changed("alpha-wick") {
			cfg.AlphaWick = analyzeAlphaWick
		}
		if cmd.Flags().Changed("n-pre") {
			cfg.NPre = analyzeNPre
		}
		if cmd.Flags().Changed("n-post") {
			cfg.NPost = analyzeNPost
		}
		if cmd.Flags().Changed("target") {
			cfg.TargetPct = analyzeTarget
		}
		if cmd.Flags().Changed("max-lookahead") {
			cfg.MaxLookahead = analyzeMaxLookahead
		}
		if cmd.Flags().Changed("min-events") {
			cfg.MinEvents = analyzeMinEvents
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = analyzeWorkers
		}

		opts := app.AnalyzeOptions{
			Symbols:    analyzeSymbols,
			Timeframes: analyzeTimeframes,
			TopN:       analyzeTop,
		}

		return a.Analyze(cmd.Context(), opts)
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeSymbols, "symbols", nil, "Restrict the sweep to these symbols")
	analyzeCmd.Flags().StringSliceVar(&analyzeTimeframes, "timeframes", nil, "Restrict the sweep to these timeframes")
	analyzeCmd.Flags().IntVar(&analyzeMAMin, "ma-min", 0, "Smallest moving-average period")
	analyzeCmd.Flags().IntVar(&analyzeMAMax, "ma-max", 0, "Largest moving-average period")
	analyzeCmd.Flags().StringSliceVar(&analyzeMATypes, "ma-types", nil, "Moving-average types to sweep (SMA, EMA)")
	analyzeCmd.Flags().Float64Var(&analyzeAlphaWick, "alpha-wick", 0, "Minimum wick share of the candle range")
	analyzeCmd.Flags().IntVar(&analyzeNPre, "n-pre", 0, "Touch-free candles required before an event")
	analyzeCmd.Flags().IntVar(&analyzeNPost, "n-post", 0, "Touch-free candles required after an event")
	analyzeCmd.Flags().Float64Var(&analyzeTarget, "target", 0, "Target move as a fraction of the entry price")
	analyzeCmd.Flags().IntVar(&analyzeMaxLookahead, "max-lookahead", 0, "Forward simulation horizon in candles (0 = unbounded)")
	analyzeCmd.Flags().IntVar(&analyzeMinEvents, "min-events", 0, "Minimum events for a combination to be reported")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Concurrent sweep workers")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Number of combinations to print (defaults to config)")
}
