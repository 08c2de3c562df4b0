package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/reelworks/reelgraph/pkg/manifest"
	"github.com/reelworks/reelgraph/pkg/timeline"
)

// tracksCommand creates the tracks command for showing the track table.
func (c *CLI) tracksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks [manifest]",
		Short: "Show the track table of a composition",
		Long: `Show the track table of a composition.

Without a manifest argument, the default track setup is shown (main, overlay,
background). With a manifest, the manifest is built and each track's final
cursor position and component count are included.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.runTracksDefault()
			}
			return c.runTracks(args[0])
		},
	}
	return cmd
}

// runTracksDefault prints the default track setup without building anything.
func (c *CLI) runTracksDefault() error {
	tl, err := timeline.New(timeline.Config{})
	if err != nil {
		return err
	}
	fmt.Println(StyleTitle.Render("Default tracks"))
	printTrackTable(tl.Tracks())
	return nil
}

// runTracks builds the manifest and prints the resulting track table.
func (c *CLI) runTracks(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	tl, err := m.Build()
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}

	fmt.Println(StyleTitle.Render(path))
	printTrackTable(tl.Tracks())
	printNewline()
	printKeyValue("total duration", fmt.Sprintf("%.2fs (%d frames at %d fps)",
		tl.TotalDurationSeconds(), tl.TotalDurationFrames(), tl.FPS()))
	return nil
}

// printTrackTable renders track summaries as a bordered table, highest layer
// first to match paint order.
func printTrackTable(tracks []timeline.TrackSummary) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(tracks))
	for _, ts := range tracks {
		rows = append(rows, []string{
			ts.Name,
			strconv.Itoa(ts.Layer),
			fmt.Sprintf("%.2fs", ts.DefaultGap),
			fmt.Sprintf("%.2fs", ts.CursorSeconds),
			strconv.Itoa(ts.ComponentCount),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Track", "Layer", "Gap", "Cursor", "Components").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
}
