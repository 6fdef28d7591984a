package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	exportApp "github.com/felixgeelhaar/mindful/internal/export/application"
	exportDomain "github.com/felixgeelhaar/mindful/internal/export/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/security"
)

var (
	exportFormat string
	exportOutput string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed sessions",
	Long: `Export completed sessions as JSON, CSV, iCalendar or Markdown.

Examples:
  mindful export --format csv                      # Export to stdout
  mindful export --format ical -o practice.ics     # Export to file
  mindful export --format md --from 2026-01-01     # Journal since January`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := exportDomain.ParseFormat(exportFormat)
		if err != nil {
			return fmt.Errorf("%w (supported: json, csv, ical, markdown)", err)
		}
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		from, to, err := parseRange(exportFrom, exportTo, app.Config.Location())
		if err != nil {
			return err
		}

		result, err := app.Container.Export.Export(cmd.Context(), exportApp.Query{Format: format, From: from, To: to})
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = cmd.OutOrStdout().Write(result.Body)
			return err
		}

		path, err := security.ResolvePath(exportOutput)
		if err != nil {
			return fmt.Errorf("invalid output path: %w", err)
		}
		if err := os.WriteFile(path, result.Body, 0o600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d sessions to %s\n", result.Sessions, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format (json, csv, ical, markdown)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "earliest start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "latest start date (YYYY-MM-DD)")
	rootCmd.AddCommand(exportCmd)
}
