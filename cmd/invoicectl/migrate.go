package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply all migrations, or roll back the latest one",
	Example:   "  invoicectl migrate up\n  invoicectl migrate down",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := database.Direction(args[0])
		if dir != database.Up && dir != database.Down {
			return fmt.Errorf("direction must be up or down, got %q", args[0])
		}

		return app.Migrate(cmd.Context(), cfg, dir)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
