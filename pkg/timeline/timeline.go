package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/reelworks/reelgraph/pkg/timecode"
)

var (
	// ErrInvalidFPS is returned by [New] when the configured frame rate is
	// negative. A zero FPS is replaced by the default of 30.
	ErrInvalidFPS = errors.New("fps must be positive")

	// ErrInvalidTrackName is returned by [Timeline.AddTrack] when the track
	// name is empty. All tracks must have non-empty names.
	ErrInvalidTrackName = errors.New("track name must not be empty")

	// ErrDuplicateTrack is returned by [New] and [Timeline.AddTrack] when a
	// track with the same name already exists. Track names are unique keys.
	ErrDuplicateTrack = errors.New("duplicate track name")

	// ErrTrackNotFound is returned by registry lookups, [Timeline.Place]
	// (for both the target track and an [AlignTo] anchor), and cursor
	// accessors when the named track does not exist.
	ErrTrackNotFound = errors.New("track not found")

	// ErrInvalidDuration is returned by [Timeline.Place] when the requested
	// duration resolves to zero or fewer frames.
	ErrInvalidDuration = errors.New("duration must cover at least one frame")

	// ErrNegativeStart is returned by [Timeline.Place] when the resolved
	// start frame is negative, e.g. an [AlignTo] offset that reaches before
	// frame zero.
	ErrNegativeStart = errors.New("start frame must not be negative")

	// ErrNilComponent is returned by [Timeline.Place] when the component is nil.
	ErrNilComponent = errors.New("component must not be nil")
)

// DefaultFPS is the frame rate used when [Config.FPS] is zero.
const DefaultFPS = 30

// Default output resolution used when [Config] leaves Width/Height zero.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// DefaultTheme is the opaque theme identifier used when [Config.Theme] is
// empty. The engine never interprets theme contents.
const DefaultTheme = "default"

// Config configures a new [Timeline]. The zero value is usable: it yields a
// 30 fps, 1920x1080 timeline with the [DefaultTracks] lanes and the
// "default" theme. Supplying Tracks replaces the default set entirely.
type Config struct {
	FPS    int
	Width  int
	Height int
	Theme  string
	Tracks []TrackConfig
}

// Timeline owns the track registry, global fps/resolution/theme metadata,
// and the placement algorithm. Create instances with [New]; the zero value
// is not usable. Timeline is not safe for concurrent use.
type Timeline struct {
	fps    int
	width  int
	height int
	theme  string
	conv   timecode.Converter

	tracks map[string]*Track
	order  []string // registration order, for deterministic flattening
	active string   // advisory default target for Place
}

// New creates a timeline from cfg, applying defaults for any zero field.
// Returns ErrInvalidFPS for a negative frame rate, ErrInvalidTrackName or
// ErrDuplicateTrack for a bad track set.
func New(cfg Config) (*Timeline, error) {
	fps := cfg.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	if fps < 0 {
		return nil, fmt.Errorf("fps %d: %w", cfg.FPS, ErrInvalidFPS)
	}

	width, height := cfg.Width, cfg.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}

	theme := cfg.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	trackCfgs := cfg.Tracks
	if len(trackCfgs) == 0 {
		trackCfgs = DefaultTracks()
	}

	t := &Timeline{
		fps:    fps,
		width:  width,
		height: height,
		theme:  theme,
		conv:   timecode.Converter{FPS: fps},
		tracks: make(map[string]*Track, len(trackCfgs)),
	}
	for _, tc := range trackCfgs {
		if _, err := t.AddTrack(tc); err != nil {
			return nil, err
		}
	}

	// The advisory active track: "main" when present, else the first
	// registered track.
	if _, ok := t.tracks["main"]; ok {
		t.active = "main"
	} else {
		t.active = t.order[0]
	}
	return t, nil
}

// FPS returns the timeline's frame rate.
func (t *Timeline) FPS() int { return t.fps }

// Width returns the output width in pixels.
func (t *Timeline) Width() int { return t.width }

// Height returns the output height in pixels.
func (t *Timeline) Height() int { return t.height }

// Theme returns the opaque theme identifier.
func (t *Timeline) Theme() string { return t.theme }

// Converter returns the timeline's frame/seconds converter.
func (t *Timeline) Converter() timecode.Converter { return t.conv }

// =============================================================================
// Track Registry
// =============================================================================

// AddTrack registers a new track. Returns ErrInvalidTrackName for an empty
// name or ErrDuplicateTrack if the name is already registered.
func (t *Timeline) AddTrack(cfg TrackConfig) (*Track, error) {
	if cfg.Name == "" {
		return nil, ErrInvalidTrackName
	}
	if _, exists := t.tracks[cfg.Name]; exists {
		return nil, fmt.Errorf("track %q: %w", cfg.Name, ErrDuplicateTrack)
	}
	tr := newTrack(cfg)
	t.tracks[cfg.Name] = tr
	t.order = append(t.order, cfg.Name)
	return tr, nil
}

// RemoveTrack deletes a track and its placed components.
// Returns ErrTrackNotFound if the name is not registered.
func (t *Timeline) RemoveTrack(name string) error {
	if _, ok := t.tracks[name]; !ok {
		return fmt.Errorf("track %q: %w", name, ErrTrackNotFound)
	}
	delete(t.tracks, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if t.active == name && len(t.order) > 0 {
		t.active = t.order[0]
	}
	return nil
}

// Track returns the named track, or ErrTrackNotFound if absent.
func (t *Timeline) Track(name string) (*Track, error) {
	tr, ok := t.tracks[name]
	if !ok {
		return nil, fmt.Errorf("track %q: %w", name, ErrTrackNotFound)
	}
	return tr, nil
}

// Tracks returns summaries of all tracks ordered by layer descending
// (top-most lane first). Tracks on the same layer keep registration order.
func (t *Timeline) Tracks() []TrackSummary {
	out := make([]TrackSummary, 0, len(t.order))
	for _, name := range t.order {
		tr := t.tracks[name]
		out = append(out, TrackSummary{
			Name:           tr.name,
			Layer:          tr.layer,
			DefaultGap:     tr.defaultGap,
			CursorSeconds:  t.conv.Seconds(tr.cursor),
			ComponentCount: len(tr.components),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Layer > out[j].Layer })
	return out
}

// SetActiveTrack changes the advisory default target for [Timeline.Place].
// Returns ErrTrackNotFound if the name is not registered.
func (t *Timeline) SetActiveTrack(name string) error {
	if _, ok := t.tracks[name]; !ok {
		return fmt.Errorf("track %q: %w", name, ErrTrackNotFound)
	}
	t.active = name
	return nil
}

// ActiveTrack returns the advisory default target track name.
func (t *Timeline) ActiveTrack() string { return t.active }

// Cursor returns the named track's cursor in frames.
func (t *Timeline) Cursor(name string) (int, error) {
	tr, err := t.Track(name)
	if err != nil {
		return 0, err
	}
	return tr.cursor, nil
}

// SetCursor overwrites the named track's cursor verbatim. This is a direct
// accessor: rewinding a cursor allows subsequent auto-stacked placements to
// overlap earlier content. The monotonic-cursor invariant is owned by
// [Timeline.Place], not by this escape hatch.
func (t *Timeline) SetCursor(name string, frames int) error {
	tr, err := t.Track(name)
	if err != nil {
		return err
	}
	tr.cursor = frames
	return nil
}

// =============================================================================
// Placement
// =============================================================================

// placement collects the directive for a single Place call. Presence flags
// distinguish "not given" from zero values so precedence can be applied.
type placement struct {
	track string

	startFrame int
	hasStart   bool

	alignTo     string
	alignOffset any
	hasAlign    bool

	gapBefore any
	hasGap    bool
}

// PlaceOption configures a single [Timeline.Place] call.
type PlaceOption func(*placement)

// OnTrack targets the named track instead of the active track.
func OnTrack(name string) PlaceOption {
	return func(p *placement) { p.track = name }
}

// AtFrame places the component at an exact frame, bypassing gap and
// alignment computation. The cursor still advances past the placed extent.
func AtFrame(frame int) PlaceOption {
	return func(p *placement) { p.startFrame = frame; p.hasStart = true }
}

// AlignTo anchors the start to another track's cursor plus a flexible time
// offset (nil means no offset). The anchor track is read, never mutated.
// Ignored when [AtFrame] is also given.
func AlignTo(track string, offset any) PlaceOption {
	return func(p *placement) { p.alignTo = track; p.alignOffset = offset; p.hasAlign = true }
}

// GapBefore inserts an explicit gap (flexible time value) between the target
// track's cursor and the new component, overriding the track's default gap.
// Ignored when [AtFrame] or [AlignTo] is also given.
func GapBefore(gap any) PlaceOption {
	return func(p *placement) { p.gapBefore = gap; p.hasGap = true }
}

// Place resolves timing for c and commits it to exactly one track.
//
// The start frame comes from the first matching directive: [AtFrame]
// verbatim; [AlignTo] anchor cursor plus offset; [GapBefore] target cursor
// plus gap; otherwise target cursor plus the track's default gap. The
// duration is a flexible time value that must cover at least one frame.
//
// The placed component inherits the target track's layer unless c carries a
// non-zero layer of its own. All validation happens before any mutation, so
// a failed call leaves the timeline untouched. c itself is never modified.
func (t *Timeline) Place(c *Component, duration any, opts ...PlaceOption) (*Placed, error) {
	if c == nil {
		return nil, ErrNilComponent
	}

	p := placement{track: t.active}
	for _, opt := range opts {
		opt(&p)
	}

	target, ok := t.tracks[p.track]
	if !ok {
		return nil, fmt.Errorf("target track %q: %w", p.track, ErrTrackNotFound)
	}

	durationFrames, err := t.conv.Frames(duration)
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}
	if durationFrames <= 0 {
		return nil, fmt.Errorf("duration %v resolves to %d frames: %w", duration, durationFrames, ErrInvalidDuration)
	}

	start, err := t.resolveStart(&p, target)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, fmt.Errorf("frame %d: %w", start, ErrNegativeStart)
	}

	layer := target.layer
	if c.Layer != 0 {
		layer = c.Layer
	}

	placed := &Placed{
		ID:             uuid.NewString(),
		Type:           c.Type,
		Track:          target.name,
		StartFrame:     start,
		DurationFrames: durationFrames,
		Layer:          layer,
		Props:          cloneProps(c.Props),
	}
	target.commit(placed)
	return placed, nil
}

// resolveStart applies directive precedence. It only reads track state.
func (t *Timeline) resolveStart(p *placement, target *Track) (int, error) {
	switch {
	case p.hasStart:
		return p.startFrame, nil

	case p.hasAlign:
		anchor, ok := t.tracks[p.alignTo]
		if !ok {
			return 0, fmt.Errorf("align-to track %q: %w", p.alignTo, ErrTrackNotFound)
		}
		offset := 0
		if p.alignOffset != nil {
			var err error
			if offset, err = t.conv.Frames(p.alignOffset); err != nil {
				return 0, fmt.Errorf("align offset: %w", err)
			}
		}
		return anchor.cursor + offset, nil

	case p.hasGap:
		gap, err := t.conv.Frames(p.gapBefore)
		if err != nil {
			return 0, fmt.Errorf("gap: %w", err)
		}
		return target.cursor + gap, nil

	default:
		return target.cursor + t.conv.FramesFromSeconds(target.defaultGap), nil
	}
}

// =============================================================================
// Flattening
// =============================================================================

// Components returns every placed component across all tracks, sorted
// ascending by layer. Components on the same layer keep their per-track
// insertion order, with tracks visited in registration order, so the result
// is deterministic for any track/layer configuration.
func (t *Timeline) Components() []*Placed {
	var out []*Placed
	for _, name := range t.order {
		out = append(out, t.tracks[name].components...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Layer < out[j].Layer })
	return out
}

// TotalDurationFrames returns the furthest extent of any placed component,
// or 0 for an empty timeline.
func (t *Timeline) TotalDurationFrames() int {
	max := 0
	for _, tr := range t.tracks {
		for _, p := range tr.components {
			if end := p.EndFrame(); end > max {
				max = end
			}
		}
	}
	return max
}

// TotalDurationSeconds returns [Timeline.TotalDurationFrames] in seconds.
func (t *Timeline) TotalDurationSeconds() float64 {
	return t.conv.Seconds(t.TotalDurationFrames())
}
