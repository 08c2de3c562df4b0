// Package timecode converts between wall-clock seconds and integer frame
// counts at a fixed frame rate.
//
// Time values throughout reelgraph are flexible: a float64 or int is read as
// seconds, and a string may carry an optional unit suffix ("1.5", "2s",
// "500ms", "1m"). [ParseSeconds] normalizes any of these to fractional
// seconds; [Converter.Frames] rounds them onto the frame grid.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time value cannot be parsed: nil,
// an unsupported Go type, a malformed number, or an unrecognized unit
// suffix (anything other than "s", "ms", or "m").
var ErrInvalidTime = errors.New("invalid time value")

// ParseSeconds normalizes a flexible time value to fractional seconds.
//
// Accepted inputs:
//   - float64, float32, int, int64: read directly as seconds
//   - string: a decimal number with an optional unit suffix
//
// String suffixes are "s" (seconds, the default when no suffix is given),
// "ms" (milliseconds) and "m" (minutes). "2" and "2s" both mean two seconds,
// "500ms" is half a second, "1m" is sixty seconds.
func ParseSeconds(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return parseString(t)
	case nil:
		return 0, fmt.Errorf("%w: value is nil", ErrInvalidTime)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidTime, v)
	}
}

// parseString parses a decimal number with an optional s/ms/m suffix.
// The "ms" case must be checked before "s" and "m" since it ends with both.
func parseString(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidTime)
	}

	numeric := trimmed
	multiplier := 1.0
	switch {
	case strings.HasSuffix(trimmed, "ms"):
		numeric = strings.TrimSuffix(trimmed, "ms")
		multiplier = 1.0 / 1000.0
	case strings.HasSuffix(trimmed, "s"):
		numeric = strings.TrimSuffix(trimmed, "s")
	case strings.HasSuffix(trimmed, "m"):
		numeric = strings.TrimSuffix(trimmed, "m")
		multiplier = 60.0
	}

	raw, err := strconv.ParseFloat(strings.TrimSpace(numeric), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return raw * multiplier, nil
}

// Converter converts between seconds and frames at a fixed frame rate.
// FPS must be positive; [github.com/reelworks/reelgraph/pkg/timeline.New]
// validates this when constructing a timeline.
type Converter struct {
	FPS int
}

// Frames converts a flexible time value (see [ParseSeconds]) to a frame
// count, rounding to the nearest frame.
func (c Converter) Frames(v any) (int, error) {
	secs, err := ParseSeconds(v)
	if err != nil {
		return 0, err
	}
	return c.FramesFromSeconds(secs), nil
}

// FramesFromSeconds converts fractional seconds to the nearest frame count.
func (c Converter) FramesFromSeconds(secs float64) int {
	return int(math.Round(secs * float64(c.FPS)))
}

// Seconds converts a frame count back to fractional seconds.
func (c Converter) Seconds(frames int) float64 {
	return float64(frames) / float64(c.FPS)
}
