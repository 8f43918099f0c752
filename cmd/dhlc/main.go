package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dhlc/internal/driver"
	"dhlc/internal/version"
)

var (
	verbose   bool
	colorMode string
	timings   bool
	maxDiags  int
)

var rootCmd = &cobra.Command{
	Use:           "dhlc",
	Short:         "Compile structural HDL into Digital circuits",
	Long:          `dhlc compiles .dhl hardware descriptions into placed gate-level .dig netlists`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		useColor, err := resolveColor(colorMode, os.Stderr)
		if err != nil {
			return err
		}
		color.NoColor = !useColor

		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(driver.WithLogger(cmd.Context(), driver.NewLogger(os.Stderr, level)))
		return nil
	},
}

func main() {
	rootCmd.Version = version.Version()
	rootCmd.SetVersionTemplate("dhlc {{.Version}}\n")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVar(&timings, "timings", false, "show phase timings")
	rootCmd.PersistentFlags().IntVar(&maxDiags, "max-diagnostics", 16, "maximum number of diagnostics to keep per file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveColor maps --color to a decision for f.
func resolveColor(mode string, f *os.File) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return os.Getenv("NO_COLOR") == "" && isTerminal(f), nil
	default:
		return false, fmt.Errorf("unknown --color value %q (auto|on|off)", mode)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
