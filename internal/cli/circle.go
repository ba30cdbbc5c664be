package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/wom/internal/geometry"
)

type circleResult struct {
	Radius float64 `json:"radius"`
	Area   float64 `json:"area"`
}

// circleCmd represents the circle command
var circleCmd = &cobra.Command{
	Use:   "circle <radius>",
	Short: "Compute the area of a circle",
	Long:  `Computes the area of a circle from a non-negative radius.`,
	Example: `  # Plain area
  wom circle 2

  # Round to two decimals and print JSON
  wom circle 2 --precision 2 --json`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipApp: "true"},
	RunE:        runCircle,
}

func init() {
	rootCmd.AddCommand(circleCmd)

	circleCmd.Flags().Int("precision", 0, "Round the area to this many decimal places")
	circleCmd.Flags().Bool("json", false, "Output as JSON with fields radius and area")
}

func runCircle(cmd *cobra.Command, args []string) error {
	radius, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return fmt.Errorf("invalid radius %q: must be a number", args[0])
	}

	area, err := geometry.CircleArea(radius)
	if errors.Is(err, geometry.ErrNegativeRadius) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v.\n", err)
		return errReported
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("precision") {
		precision, _ := cmd.Flags().GetInt("precision")
		area = geometry.Round(area, precision)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return json.NewEncoder(out).Encode(circleResult{Radius: radius, Area: area})
	}
	_, err = fmt.Fprintln(out, formatFloat(area))
	return err
}

// formatFloat prints the shortest exact decimal, keeping a trailing ".0" on
// whole numbers
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
