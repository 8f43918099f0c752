package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dhlc/internal/ast"
	"dhlc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.dhl...",
	Short: "Parse and width-check files without lowering",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var failed int
	for _, path := range args {
		res, err := driver.Check(cmd.Context(), path, maxDiags)
		printDiagnostics(os.Stderr, res.Bag, res.FileSet)
		if err != nil {
			failed++
			continue
		}
		fmt.Fprintln(out, styleTitle.Render(path))
		printPorts(cmd, "in", res.Inputs)
		printPorts(cmd, "out", res.Outputs)
		printTimings(os.Stderr, path, res.Timer)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func printPorts(cmd *cobra.Command, dir string, ports []ast.Port) {
	for _, p := range ports {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-3s %-16s %s\n", dir, p.Name, styleNumber.Render(p.Width.String()))
	}
}
