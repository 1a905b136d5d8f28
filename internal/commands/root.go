package commands

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string

	cfg *config.Config
	log *slog.Logger
)

// rootCmd - без подкоманды запускает сервис
var rootCmd = &cobra.Command{
	Use:   "crypto-market",
	Short: "Crypto market data service",
	Long: `Crypto market data service: paged market listing, top gainers and losers,
search, price history and favorites over HTTP and Telegram.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(&cfg.Logger)
		return nil
	},
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("crypto-market %s (commit %s, built %s)\n", version, commit, date)
	},
}

// Execute - точка входа для main
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default $CONFIG_PATH)")
	rootCmd.AddCommand(versionCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
