package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/app"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search assets by name or symbol and print them as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := app.NewServices(*cfg, log, nil, nil)
		if err := svc.Search.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), svc.Search.Results())
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
