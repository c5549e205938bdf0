package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Administer the invoicer database from the command line",
	Long: `invoicectl runs database migrations, manages users and prints reports.

It reads the same environment (or .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		var err error

		cfg, err = config.Load()
		if err != nil {
			return err
		}

		return logging.Setup(cfg.Log, os.Stderr)
	},
}

// withApp opens the configured stores for the duration of fn. Reports are not
// cached; every command reads fresh figures.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	stores, closeStores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	return fn(app.New(cfg, stores, report.NopCache{}))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
