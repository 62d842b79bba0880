package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wickscan/internal/app"
)

var (
	exportSymbol    string
	exportTimeframe string
	exportMAType    string
	exportPeriod    int
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one combination as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportSymbol == "" || exportTimeframe == "" {
			return fmt.Errorf("--symbol and --timeframe must be provided")
		}

		opts := app.ExportOptions{
			Symbol:    exportSymbol,
			Timeframe: exportTimeframe,
			MAType:    exportMAType,
			Period:    exportPeriod,
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			MaxPoints: exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSymbol, "symbol", "", "Symbol to export, e.g. BTC/USDT")
	exportCmd.Flags().StringVar(&exportTimeframe, "timeframe", "", "Timeframe to export, e.g. 1h")
	exportCmd.Flags().StringVar(&exportMAType, "ma-type", "SMA", "Moving-average type (SMA, EMA)")
	exportCmd.Flags().IntVar(&exportPeriod, "period", 21, "Moving-average period")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
