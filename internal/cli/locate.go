package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/wom/internal/chart"
	"github.com/law-makers/wom/internal/render"
	urlutil "github.com/law-makers/wom/internal/utils/url"
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate <file|url>",
	Short: "Show how the weekly section is found on a page",
	Long: `Reads a saved chart page (or fetches a URL) and reports which lookup
matched the weekly ranking list, the week label and the number of entries,
followed by the located section rendered as Markdown.

Useful for checking an archived copy whose layout differs from the live page.`,
	Example: `  # Inspect a saved page
  wom locate ./chart.html

  # Inspect an archived copy
  wom locate https://web.archive.org/web/20240101000000id_/https://movie.douban.com/chart`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().String("base", "", "Base URL for resolving links in a saved file (default: target-url)")
}

func runLocate(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	source := args[0]
	base, _ := cmd.Flags().GetString("base")

	var page string
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if err := urlutil.ValidateURL(source); err != nil {
			return err
		}
		body, err := a.Fetcher.Fetch(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("failed to fetch URL: %w", err)
		}
		page = body
		if base == "" {
			base = source
		}
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		page = string(data)
		if base == "" {
			base = a.Config.TargetURL
		}
	}

	doc, err := chart.Parse(strings.NewReader(page))
	if err != nil {
		return err
	}

	heading := chart.FindHeading(doc)
	section, strategy := chart.LocateFrom(doc, heading)
	label := chart.LabelFrom(heading)
	entries := chart.ExtractEntries(section, a.Config.Limit)

	log.Debug().Str("source", source).Str("strategy", strategy).Msg("Located section")

	out := cmd.OutOrStdout()
	if heading == nil {
		fmt.Fprintln(out, "Heading:  not found")
	} else {
		fmt.Fprintf(out, "Heading:  %s\n", chart.Normalize(chart.Text(heading)))
	}
	if strategy == "" {
		strategy = "none"
	}
	fmt.Fprintf(out, "Strategy: %s\n", strategy)
	if label != nil {
		fmt.Fprintf(out, "Week:     %s\n", *label)
	} else {
		fmt.Fprintln(out, "Week:     -")
	}
	fmt.Fprintf(out, "Entries:  %d\n", len(entries))

	md, err := render.SectionMarkdown(section, base)
	if err != nil {
		return err
	}
	if md != "" {
		fmt.Fprintf(out, "\n%s\n", md)
	}
	return nil
}
