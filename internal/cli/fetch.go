package cli

import (
	"github.com/spf13/cobra"

	"wickscan/internal/app"
)

var (
	fetchSymbols    []string
	fetchTimeframes []string
	fetchFollow     bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download candle history from the exchange",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.FetchOptions{
			Symbols:    fetchSymbols,
			Timeframes: fetchTimeframes,
			Follow:     fetchFollow,
		}

		return getApp().Fetch(cmd.Context(), opts)
	},
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSymbols, "symbols", nil, "Symbols to fetch (defaults to config)")
	fetchCmd.Flags().StringSliceVar(&fetchTimeframes, "timeframes", nil, "Timeframes to fetch (defaults to config)")
	fetchCmd.Flags().BoolVar(&fetchFollow, "follow", false, "Keep running and re-sync on the configured interval")
}
