package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/wom/internal/config"
	"github.com/law-makers/wom/internal/render"
	"github.com/law-makers/wom/internal/report"
	"github.com/law-makers/wom/internal/ui"
	"github.com/law-makers/wom/pkg/models"
)

// weeklyCmd represents the weekly command
var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Fetch the weekly word-of-mouth chart",
	Long: `Fetches the Douban chart page, extracts the weekly word-of-mouth ranking
and prints a JSON report.

With --recent N the Wayback Machine index is queried for up to N archived
copies of the page (at most one per day, newest first) and each copy is
parsed the same way. A page that cannot be fetched becomes an error entry
in the report; the report itself is always printed.`,
	Example: `  # Current chart only
  wom weekly --pretty

  # Current chart plus the three most recent archived copies
  wom weekly --recent 3

  # Markdown tables instead of JSON
  wom weekly --recent 2 --format markdown

  # Extra request header
  wom weekly -H "Referer: https://movie.douban.com/"`,
	Args: cobra.NoArgs,
	RunE: runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)

	weeklyCmd.Flags().Int("recent", 0, "Number of archived snapshots to include")
	weeklyCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	weeklyCmd.Flags().StringP("format", "f", "json", "Output format: json or markdown")
	weeklyCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	weeklyCmd.Flags().Int("limit", config.DefaultLimit, "Maximum entries per chart")
	weeklyCmd.Flags().StringArrayP("header", "H", []string{}, "Custom headers (e.g., -H \"Referer: https://movie.douban.com/\")")
}

func runWeekly(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	recent, _ := cmd.Flags().GetInt("recent")
	if recent < 0 {
		return fmt.Errorf("--recent must be >= 0, got %d", recent)
	}
	pretty, _ := cmd.Flags().GetBool("pretty")
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "json" && format != "markdown" && format != "md" {
		return fmt.Errorf("invalid format: %s (must be json or markdown)", format)
	}
	output, _ := cmd.Flags().GetString("output")

	var progress func(total int) report.Progress
	if !a.Config.Quiet && ui.IsTerminal(os.Stderr) {
		progress = newProgressBar(cmd.ErrOrStderr())
	}

	log.Debug().
		Str("url", a.Config.TargetURL).
		Int("recent", recent).
		Msg("Building weekly report")

	rep := a.Runner(0, progress).Run(cmd.Context(), recent)

	var buf bytes.Buffer
	if err := writeReport(&buf, rep, format, pretty); err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Info().Str("file", output).Msg("Report saved")
	return nil
}

func writeReport(w io.Writer, rep *models.Report, format string, pretty bool) error {
	if format == "json" {
		return render.WriteJSON(w, rep, pretty)
	}
	return render.WriteMarkdown(w, rep)
}

func newProgressBar(w io.Writer) func(total int) report.Progress {
	return func(total int) report.Progress {
		return progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("snapshots"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}
