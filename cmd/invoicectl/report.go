package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Print the period report as JSON",
	Example: "  invoicectl report --start 2024-04-06 --end 2025-04-05",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		rng, err := daterange.Parse(start, end)
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			rep, err := a.Composer.BuildReport(cmd.Context(), rng)
			if err != nil {
				return err
			}

			return printJSON(cmd, rep)
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the lifetime dashboard as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			d, err := a.Composer.BuildDashboard(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cmd, d)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write an incoming or deductions export into a directory",
	Example: "  invoicectl export --kind deductions --start 2024-04-06 --end 2025-04-05 --format xlsx --out .",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		kindFlag, _ := flags.GetString("kind")
		formatFlag, _ := flags.GetString("format")
		start, _ := flags.GetString("start")
		end, _ := flags.GetString("end")
		out, _ := flags.GetString("out")

		kind, err := export.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		rng, err := daterange.ParseOptional(start, end)
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			file, err := a.Export.Export(cmd.Context(), export.Request{Kind: kind, Range: rng, Format: format}, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", file.Rows, file.Path)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd, dashboardCmd, exportCmd)

	reportCmd.Flags().String("start", "", "First day, YYYY-MM-DD")
	reportCmd.Flags().String("end", "", "Last day, YYYY-MM-DD")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")

	exportCmd.Flags().String("kind", "", "incoming or deductions")
	exportCmd.Flags().String("format", "csv", "csv or xlsx")
	exportCmd.Flags().String("start", "", "First day, YYYY-MM-DD (default: all time)")
	exportCmd.Flags().String("end", "", "Last day, YYYY-MM-DD")
	exportCmd.Flags().String("out", ".", "Directory to write into")
	_ = exportCmd.MarkFlagRequired("kind")
}
