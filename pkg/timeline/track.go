package timeline

import "slices"

// TrackConfig describes a track to register on a timeline: a unique name,
// a Z-layer (higher layers render on top), a default gap in seconds inserted
// before auto-stacked placements, and an optional human-readable description.
type TrackConfig struct {
	Name        string
	Layer       int
	DefaultGap  float64
	Description string
}

// DefaultTracks returns the standard three-lane configuration used when a
// [Config] does not specify its own tracks: a main content lane with a half
// second of breathing room between scenes, an overlay lane above it, and a
// background lane below.
func DefaultTracks() []TrackConfig {
	return []TrackConfig{
		{Name: "main", Layer: 0, DefaultGap: 0.5, Description: "primary content"},
		{Name: "overlay", Layer: 10, DefaultGap: 0, Description: "overlays and callouts"},
		{Name: "background", Layer: -10, DefaultGap: 0, Description: "backdrops"},
	}
}

// Track is a named lane on a timeline: a fixed Z-layer, a default gap, a
// monotonically advancing cursor in frames, and the components placed on it
// in insertion order (which is not necessarily start-time order).
//
// Tracks are created through [Timeline.AddTrack] or [Config.Tracks]; the
// zero value is not usable.
type Track struct {
	name        string
	layer       int
	defaultGap  float64 // seconds
	description string

	cursor     int // frames; advanced only by Place and SetCursor
	components []*Placed
}

func newTrack(cfg TrackConfig) *Track {
	return &Track{
		name:        cfg.Name,
		layer:       cfg.Layer,
		defaultGap:  cfg.DefaultGap,
		description: cfg.Description,
	}
}

// Name returns the track's unique name.
func (t *Track) Name() string { return t.name }

// Layer returns the track's Z-layer. Components inherit it at placement
// unless they carry their own non-zero layer.
func (t *Track) Layer() int { return t.layer }

// DefaultGap returns the gap in seconds inserted before auto-stacked
// placements on this track.
func (t *Track) DefaultGap() float64 { return t.defaultGap }

// Description returns the optional human-readable description.
func (t *Track) Description() string { return t.description }

// Cursor returns the track's cursor: the frame offset marking the end of all
// content placed on the track so far.
func (t *Track) Cursor() int { return t.cursor }

// Components returns the components placed on this track in insertion order.
// The returned slice is a copy; the placed records themselves are shared.
func (t *Track) Components() []*Placed { return slices.Clone(t.components) }

// ComponentCount returns the number of components placed on this track.
func (t *Track) ComponentCount() int { return len(t.components) }

// commit appends a placed component and advances the cursor to the furthest
// committed extent. The max keeps the cursor correct when explicit-start,
// gap-before, and auto-stacked placements are interleaved.
func (t *Track) commit(p *Placed) {
	t.components = append(t.components, p)
	if end := p.EndFrame(); end > t.cursor {
		t.cursor = end
	}
}

// TrackSummary is the serializable snapshot of a track used by
// [Timeline.Tracks] and the render-graph document.
type TrackSummary struct {
	Name           string  `json:"name"`
	Layer          int     `json:"layer"`
	DefaultGap     float64 `json:"defaultGap"`
	CursorSeconds  float64 `json:"cursorSeconds"`
	ComponentCount int     `json:"componentCount"`
}
