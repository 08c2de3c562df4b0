package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelworks/reelgraph/pkg/pipeline"
)

// buildCommand creates the build command for compiling manifests.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build [manifest]",
		Short: "Compile a composition manifest into render-graph outputs",
		Long: `Compile a composition manifest into render-graph outputs.

The build command loads a manifest (TOML, or JSON for .json files), replays
every scene through the timeline placement engine, and emits the flattened
render graph in the requested formats:

  json   render graph document (the stable contract)
  svg    lane diagram of tracks and components
  dot    Graphviz source of the component tree
  tree   component tree rendered to SVG via Graphviz

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Manifest = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and rebuild")

	// Emit flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot, tree (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include track, timing, and layer in diagram labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "lane diagram scale in pixels per second")
	cmd.Flags().BoolVar(&opts.Ruler, "ruler", false, "add a second-tick ruler to the lane diagram")

	return cmd
}

// runBuild executes the pipeline and writes the artifacts.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, "Building composition...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build: %w", err)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Manifest, output)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopWithSuccess("Build complete")
	prog.done(fmt.Sprintf("Placed %d components across %d tracks", result.Stats.ComponentCount, result.Stats.TrackCount))

	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.TrackCount, result.Stats.ComponentCount, result.CacheInfo.BuildHit)
	printNewline()
	printNextStep("Preview", "reelgraph serve "+opts.Manifest)

	return nil
}

// artifactExt maps a format to its output file extension.
var artifactExt = map[string]string{
	pipeline.FormatJSON: "json",
	pipeline.FormatSVG:  "svg",
	pipeline.FormatDOT:  "dot",
	pipeline.FormatTree: "tree.svg",
}

// writeArtifacts writes each emitted artifact next to the input manifest
// (or under the explicit output path) and returns the written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	// Single format with an explicit output writes exactly there.
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + artifactExt[format]
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known artifact extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, known := range artifactExt {
		if strings.TrimPrefix(ext, ".") == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
