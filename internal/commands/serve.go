package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server, scheduler and Telegram bot",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	application, err := app.NewApp(ctx, *cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		return err
	}

	if err := application.Run(ctx); err != nil {
		log.Error("application stopped with error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
