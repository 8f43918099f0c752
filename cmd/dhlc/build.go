package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dhlc/internal/buildcache"
	"dhlc/internal/driver"
	"dhlc/internal/project"
)

var buildCmd = newBuildCmd()

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [file.dhl...]",
		Short: "Compile .dhl files into .dig, .dot or .svg",
		Long: `Build compiles each file into a placed netlist. Without arguments the
[build].main entry of the nearest dhl.toml is compiled.`,
		RunE: runBuild,
	}
	cmd.Flags().String("format", "", "output format (dig|dot|svg); defaults to the manifest or dig")
	cmd.Flags().StringP("out", "o", "", "output path (single input only)")
	cmd.Flags().Int("jobs", 0, "files compiled in parallel (0 = GOMAXPROCS)")
	cmd.Flags().Uint64("seed", 0, "placement jitter seed (overrides the manifest)")
	cmd.Flags().Bool("stats", false, "print element counts per file")
	cmd.Flags().Bool("cache", false, "reuse lowered graphs from the user cache directory")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

// buildPlan is the resolved set of inputs, outputs and options of one build.
type buildPlan struct {
	inputs  []string
	outputs []string
	format  string
	ui      uiMode
	opts    driver.Options
}

func runBuild(cmd *cobra.Command, args []string) error {
	plan, err := planBuild(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := driver.Logger(ctx)

	if useCache, _ := cmd.Flags().GetBool("cache"); useCache {
		cache, err := buildcache.Open("dhlc")
		if err != nil {
			logger.Warn("cache disabled", "err", err)
		} else {
			plan.opts.Cache = cache
		}
	}

	var results []*driver.Result
	if shouldUseTUI(plan.ui, len(plan.inputs)) {
		results, err = compileWithUI(ctx, "dhlc build", plan.inputs, plan.opts)
	} else {
		results, err = driver.CompileFiles(ctx, plan.inputs, plan.opts)
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		printDiagnostics(os.Stderr, res.Bag, res.FileSet)
	}
	if err != nil {
		return err
	}

	stats, _ := cmd.Flags().GetBool("stats")
	for i, res := range results {
		var buf bytes.Buffer
		err := res.Timer.Track("emit", func() error {
			return driver.Emit(ctx, &buf, res.Graph, plan.format)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", res.Path, err)
		}
		if err := os.WriteFile(plan.outputs[i], buf.Bytes(), 0o644); err != nil { // #nosec G306 -- circuits are meant to be shared
			return fmt.Errorf("write %s: %w", plan.outputs[i], err)
		}
		logger.Info("wrote", "file", plan.outputs[i], "elements", len(res.Graph.Elements), "wires", len(res.Graph.Wires))
		if stats {
			fmt.Fprint(cmd.OutOrStdout(), renderStats(res.Path, res.Graph, res.Cached))
		}
		printTimings(os.Stderr, res.Path, res.Timer)
	}
	return nil
}

func planBuild(cmd *cobra.Command, args []string) (*buildPlan, error) {
	plan := &buildPlan{inputs: args, opts: driver.DefaultOptions()}
	plan.opts.MaxDiagnostics = maxDiags
	plan.opts.Jobs, _ = cmd.Flags().GetInt("jobs")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, found, err := project.LoadManifest(cwd)
	if err != nil {
		return nil, err
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	if plan.ui, err = readUIMode(uiFlag); err != nil {
		return nil, err
	}

	format, _ := cmd.Flags().GetString("format")
	if found {
		plan.opts.Layout = manifest.Config.Layout
		if format == "" {
			format = manifest.Config.Build.Format
		}
	}
	if format == "" {
		format = project.FormatDig
	}
	format = strings.ToLower(format)
	if !project.ValidFormat(format) {
		return nil, fmt.Errorf("%w %q (dig|dot|svg)", project.ErrUnknownFormat, format)
	}
	plan.format = format

	if cmd.Flags().Changed("seed") {
		plan.opts.Layout.Seed, _ = cmd.Flags().GetUint64("seed")
	}

	out, _ := cmd.Flags().GetString("out")
	if len(plan.inputs) == 0 {
		if !found {
			return nil, errors.New("no input files and no dhl.toml found")
		}
		mainPath, err := manifest.MainPath()
		if err != nil {
			return nil, err
		}
		plan.inputs = []string{mainPath}
		if out == "" && strings.TrimSpace(manifest.Config.Build.Output) != "" {
			out = manifest.OutputPath(mainPath)
		}
	}
	if out != "" && len(plan.inputs) > 1 {
		return nil, errors.New("--out needs exactly one input file")
	}

	for _, in := range plan.inputs {
		if filepath.Ext(in) != ".dhl" {
			return nil, fmt.Errorf("%s: expected a .dhl file", in)
		}
		target := out
		if target == "" {
			target = outputName(in, format)
		}
		plan.outputs = append(plan.outputs, target)
	}
	return plan, nil
}

// outputName replaces the extension of input with format.
func outputName(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
