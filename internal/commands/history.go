package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/app"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

var (
	historyRange    string
	historyInterval string
	historyStart    int64
)

var historyCmd = &cobra.Command{
	Use:   "history <symbol>",
	Short: "Load price history for a symbol and print it as JSON",
	Long: `Load price history for a symbol from Binance and print it as JSON.

Examples:
  # Last week of hourly bars
  crypto-market history BTC --range 1W

  # Daily bars from an explicit start (ms)
  crypto-market history ETH --interval 1d --start 1609459200000`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRange, "range", domain.DefaultRange.Label, "range preset (24H, 1W, 1M, 6M, 1Y, 5Y)")
	historyCmd.Flags().StringVar(&historyInterval, "interval", "", "bar interval (1m, 1h, 1d); overrides --range together with --start")
	historyCmd.Flags().Int64Var(&historyStart, "start", 0, "start time in ms, used with --interval")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	start, interval, err := historyWindow(time.Now())
	if err != nil {
		return err
	}

	svc := app.NewServices(*cfg, log, nil, nil)
	if err := svc.History.Load(cmd.Context(), args[0], start, interval); err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), svc.History.Series())
}

func historyWindow(now time.Time) (int64, domain.Interval, error) {
	if historyInterval != "" {
		iv, err := domain.ParseInterval(historyInterval)
		if err != nil {
			return 0, "", err
		}
		return historyStart, iv, nil
	}
	r, err := domain.ParseRange(historyRange)
	if err != nil {
		return 0, "", err
	}
	return r.Start(now), r.Interval, nil
}
