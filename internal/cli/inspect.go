package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/reelworks/reelgraph/pkg/pipeline"
)

// inspectCommand creates the inspect command for examining compositions.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		interactive bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Summarize a built composition",
		Long: `Summarize a built composition.

Builds the manifest and prints the timeline settings, the track table, and
every placed component with its resolved timing. With --interactive (-i),
opens a scrollable component browser instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], interactive, noCache)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse components interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, interactive, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Manifest: path, Logger: c.Logger}
	m, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	g, err := runner.Build(ctx, m, opts)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}

	if interactive {
		_, err := tea.NewProgram(NewComponentListModel(g), tea.WithContext(ctx)).Run()
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	printKeyValue("fps", fmt.Sprintf("%d", g.FPS))
	printKeyValue("resolution", fmt.Sprintf("%dx%d", g.Width, g.Height))
	printKeyValue("theme", g.Theme)
	printKeyValue("duration", fmt.Sprintf("%.2fs (%d frames)", g.DurationSeconds, g.DurationFrames))
	printNewline()

	printTrackTable(g.Tracks)
	printNewline()

	for _, comp := range g.Components {
		printInfo("%s on %s", StyleHighlight.Render(comp.Type), comp.Track)
		fmt.Println("  " + StyleDim.Render(fmt.Sprintf("start %.2fs · duration %.2fs · layer %d · %d props",
			comp.StartTime, comp.Duration, comp.Layer, len(comp.Props))))
	}
	return nil
}
