package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelworks/reelgraph/pkg/timecode"
)

// timeCommand creates the time command for converting flexible time values.
func (c *CLI) timeCommand() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "time [value]",
		Short: "Convert a flexible time value to seconds and frames",
		Long: `Convert a flexible time value to seconds and frames.

Accepted values match the manifest's time fields: plain numbers are seconds,
strings may carry an s, ms, or m suffix.

  reelgraph time 2.5
  reelgraph time 500ms
  reelgraph time 1.5m --fps 24`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTime(args[0], fps)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate for the frame conversion")
	return cmd
}

func runTime(value string, fps int) error {
	seconds, err := timecode.ParseSeconds(value)
	if err != nil {
		return err
	}

	conv := timecode.Converter{FPS: fps}
	frames := conv.FramesFromSeconds(seconds)

	printKeyValue("seconds", fmt.Sprintf("%g", seconds))
	printKeyValue("frames", fmt.Sprintf("%d @ %d fps", frames, fps))
	printKeyValue("exact", fmt.Sprintf("%.4fs on the frame grid", conv.Seconds(frames)))
	return nil
}
