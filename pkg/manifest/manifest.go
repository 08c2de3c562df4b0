// Package manifest loads declarative composition manifests and replays them
// through the timeline placement engine.
//
// A manifest carries the timeline's global settings (fps, resolution, theme),
// optional extra track definitions, and an ordered list of scenes. Each scene
// names a component type, a duration, an optional placement directive
// (start_frame, align_to/offset, or gap_before), and a props map whose
// nested {type, config} values become component trees.
//
// Manifests are TOML by default; files ending in .json are decoded as JSON.
//
//	fps = 30
//	theme = "midnight"
//
//	[[tracks]]
//	name = "captions"
//	layer = 20
//
//	[[scenes]]
//	track = "main"
//	type = "TitleCard"
//	duration = "3s"
//	[scenes.props]
//	title = "Welcome"
package manifest

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/reelworks/reelgraph/pkg/compspec"
	"github.com/reelworks/reelgraph/pkg/errors"
	"github.com/reelworks/reelgraph/pkg/timecode"
	"github.com/reelworks/reelgraph/pkg/timeline"
)

// Manifest is a declarative composition: timeline settings, extra tracks,
// and an ordered scene list. Zero global fields fall back to the timeline
// defaults (30 fps, 1920x1080, "default" theme, standard lanes).
type Manifest struct {
	FPS    int    `toml:"fps" json:"fps,omitempty"`
	Width  int    `toml:"width" json:"width,omitempty"`
	Height int    `toml:"height" json:"height,omitempty"`
	Theme  string `toml:"theme" json:"theme,omitempty"`

	Tracks []TrackDef `toml:"tracks" json:"tracks,omitempty"`
	Scenes []Scene    `toml:"scenes" json:"scenes,omitempty"`
}

// TrackDef defines an extra track registered on top of the default lanes.
type TrackDef struct {
	Name        string  `toml:"name" json:"name"`
	Layer       int     `toml:"layer" json:"layer"`
	Gap         float64 `toml:"gap" json:"gap,omitempty"`
	Description string  `toml:"description" json:"description,omitempty"`
}

// Scene is one placement instruction. Duration, Offset and GapBefore are
// flexible time values: numbers are seconds, strings may carry an s/ms/m
// suffix. Directive precedence matches the engine: start_frame, then
// align_to, then gap_before, then the track's default gap.
type Scene struct {
	Track string `toml:"track" json:"track,omitempty"`
	Type  string `toml:"type" json:"type"`
	Layer int    `toml:"layer" json:"layer,omitempty"`

	Duration   any    `toml:"duration" json:"duration"`
	StartFrame *int   `toml:"start_frame" json:"start_frame,omitempty"`
	AlignTo    string `toml:"align_to" json:"align_to,omitempty"`
	Offset     any    `toml:"offset" json:"offset,omitempty"`
	GapBefore  any    `toml:"gap_before" json:"gap_before,omitempty"`

	Props map[string]any `toml:"props" json:"props,omitempty"`
}

// Load reads a manifest file, picking the decoder by extension
// (.json decodes as JSON, everything else as TOML).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	var m Manifest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
		}
	} else {
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Parse decodes a TOML manifest from bytes and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural requirements before any placement happens:
// every scene needs a type and a duration, every extra track needs a name.
func (m *Manifest) Validate() error {
	for i, td := range m.Tracks {
		if td.Name == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "tracks[%d]: name is required", i)
		}
	}
	for i, sc := range m.Scenes {
		if sc.Type == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "scenes[%d]: type is required", i)
		}
		if sc.Duration == nil {
			return errors.New(errors.ErrCodeInvalidManifest, "scenes[%d] (%s): duration is required", i, sc.Type)
		}
	}
	return nil
}

// Build constructs a timeline from the manifest's settings and replays every
// scene through the placement engine, in order. Engine errors are wrapped
// with the scene index so authors can find the offending entry.
func (m *Manifest) Build() (*timeline.Timeline, error) {
	tl, err := timeline.New(timeline.Config{
		FPS:    m.FPS,
		Width:  m.Width,
		Height: m.Height,
		Theme:  m.Theme,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "timeline settings")
	}

	for i, td := range m.Tracks {
		_, err := tl.AddTrack(timeline.TrackConfig{
			Name:        td.Name,
			Layer:       td.Layer,
			DefaultGap:  td.Gap,
			Description: td.Description,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDuplicateTrack, err, "tracks[%d] (%s)", i, td.Name)
		}
	}

	for i, sc := range m.Scenes {
		if _, err := placeScene(tl, sc); err != nil {
			return nil, errors.Wrap(classify(err), err, "scenes[%d] (%s)", i, sc.Type)
		}
	}
	return tl, nil
}

// placeScene translates one scene entry into a Place call.
func placeScene(tl *timeline.Timeline, sc Scene) (*timeline.Placed, error) {
	c := timeline.NewComponent(sc.Type, compspec.ConvertProps(sc.Props))
	if sc.Layer != 0 {
		c.WithLayer(sc.Layer)
	}

	opts := []timeline.PlaceOption{}
	if sc.Track != "" {
		opts = append(opts, timeline.OnTrack(sc.Track))
	}
	switch {
	case sc.StartFrame != nil:
		opts = append(opts, timeline.AtFrame(*sc.StartFrame))
	case sc.AlignTo != "":
		opts = append(opts, timeline.AlignTo(sc.AlignTo, sc.Offset))
	case sc.GapBefore != nil:
		opts = append(opts, timeline.GapBefore(sc.GapBefore))
	}

	return tl.Place(c, sc.Duration, opts...)
}

// classify maps engine sentinel errors onto the structured code taxonomy.
func classify(err error) errors.Code {
	switch {
	case stderrors.Is(err, timeline.ErrTrackNotFound):
		return errors.ErrCodeTrackNotFound
	case stderrors.Is(err, timeline.ErrDuplicateTrack):
		return errors.ErrCodeDuplicateTrack
	case stderrors.Is(err, timeline.ErrInvalidDuration):
		return errors.ErrCodeInvalidDuration
	case stderrors.Is(err, timecode.ErrInvalidTime):
		return errors.ErrCodeInvalidTime
	case stderrors.Is(err, timeline.ErrNegativeStart), stderrors.Is(err, timeline.ErrInvalidTrackName):
		return errors.ErrCodeInvalidTrack
	default:
		return errors.ErrCodeInvalidManifest
	}
}
