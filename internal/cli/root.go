// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/wom/internal/app"
	"github.com/law-makers/wom/internal/config"
	"github.com/law-makers/wom/internal/ui"
)

// skipApp marks commands that run without an Application
const skipApp = "skip-app"

// errReported is returned by commands that already printed their own error
var errReported = errors.New("error already reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wom",
	Short: "Douban weekly word-of-mouth chart scraper",
	Long: `Wom extracts the weekly word-of-mouth movie chart (一周口碑榜) from Douban
and can compare it with archived copies from the Wayback Machine.

It also ships a small circle-area calculator.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main(). A report that was emitted always yields 0.
func Execute(ctx context.Context) int {
	return execute(ctx, rootCmd, os.Stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "%s %v\n", ui.Paint(isTerminal(stderr), ui.ColorRed, "Error:"), err)
		}
		return 1
	}
	return 0
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipApp] == "true" {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		// Store app in the current command's context for commands to access
		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return nil
		}
		SetApp(cmd, nil)
		return a.Close(cmd.Context())
	}

	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for wom")
	rootCmd.Flags().Bool("version", false, "Version for wom")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom help function
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	color := isTerminal(w)
	paint := func(style, s string) string { return ui.Paint(color, style, s) }

	fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name())))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	writeUsage(w, cmd, paint)

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Examples"))
		lastWasCommand := false
		for _, example := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(example)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s\n", paint(ui.ColorDim, trimmed))
				lastWasCommand = false
			} else {
				fmt.Fprintf(w, "  %s\n", paint(ui.ColorGreen, "$ "+trimmed))
				lastWasCommand = true
			}
		}
	}

	writeCommands(w, cmd, paint)

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Flags"))
		printFlagsTo(w, cmd.LocalFlags().FlagUsages(), paint)
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Global Flags"))
		printFlagsTo(w, cmd.InheritedFlags().FlagUsages(), paint)
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nUse \"%s %s %s\" for more information about a command.\n",
			paint(ui.ColorCyan, cmd.CommandPath()),
			paint(ui.ColorYellow, "<command>"),
			paint(ui.ColorGreen, "--help"))
	}
	fmt.Fprintln(w)
}

// customUsageFunc provides a colorized usage output
func customUsageFunc(cmd *cobra.Command) error {
	w := cmd.ErrOrStderr()
	color := isTerminal(w)
	paint := func(style, s string) string { return ui.Paint(color, style, s) }

	writeUsage(w, cmd, paint)
	writeCommands(w, cmd, paint)
	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Flags"))
		printFlagsTo(w, cmd.LocalFlags().FlagUsages(), paint)
	}
	fmt.Fprintf(w, "\nUse \"%s %s\" for more information.\n",
		paint(ui.ColorCyan, cmd.CommandPath()), paint(ui.ColorGreen, "--help"))
	return nil
}

func writeUsage(w io.Writer, cmd *cobra.Command, paint func(style, s string) string) {
	fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Usage"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", paint(ui.ColorCyan, cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s %s %s\n",
			paint(ui.ColorCyan, cmd.CommandPath()),
			paint(ui.ColorYellow, "<command>"),
			paint(ui.ColorDim, "[flags]"))
	}
}

func writeCommands(w io.Writer, cmd *cobra.Command, paint func(style, s string) string) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	fmt.Fprintf(w, "\n%s\n", paint(ui.ColorBold+ui.ColorWhite, "Commands"))

	maxLen := 0
	var available []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			available = append(available, c)
			maxLen = max(maxLen, len(c.Name()))
		}
	}
	for _, c := range available {
		padding := strings.Repeat(" ", maxLen-len(c.Name())+2)
		fmt.Fprintf(w, "  %s%s%s\n", paint(ui.ColorCyan, c.Name()), padding, paint(ui.ColorDim, c.Short))
	}
}

// printFlagsTo prints flag usages aligned in two columns
func printFlagsTo(w io.Writer, flagUsages string, paint func(style, s string) string) {
	lines := strings.Split(flagUsages, "\n")

	maxFlagLen := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart := strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])
			maxFlagLen = max(maxFlagLen, len(flagPart))
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")

		if !strings.HasPrefix(trimmed, "-") {
			// Continuation line
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", maxFlagLen+4), paint(ui.ColorDim, trimmed))
			continue
		}

		parts := strings.SplitN(trimmed, "  ", 2)
		if len(parts) != 2 {
			fmt.Fprintf(w, "  %s\n", paint(ui.ColorGreen, trimmed))
			continue
		}
		flagPart := strings.TrimSpace(parts[0])
		padding := strings.Repeat(" ", maxFlagLen-len(flagPart)+2)
		fmt.Fprintf(w, "  %s%s%s\n", paint(ui.ColorGreen, flagPart), padding, paint(ui.ColorDim, strings.TrimSpace(parts[1])))
	}
}

// wrapText wraps text at the specified width while preserving paragraphs
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var wrapped []string
		for _, line := range strings.Split(para, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
				wrapped = append(wrapped, trimmed)
				continue
			}

			var current strings.Builder
			for _, word := range strings.Fields(trimmed) {
				switch {
				case current.Len() == 0:
					current.WriteString(word)
				case current.Len()+1+len(word) <= width:
					current.WriteString(" ")
					current.WriteString(word)
				default:
					wrapped = append(wrapped, current.String())
					current.Reset()
					current.WriteString(word)
				}
			}
			if current.Len() > 0 {
				wrapped = append(wrapped, current.String())
			}
		}
		if len(wrapped) > 0 {
			paragraphs = append(paragraphs, strings.Join(wrapped, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
