// Package rendergraph flattens a timeline into the serializable render graph
// consumed by downstream code generators.
//
// The JSON shape is the externally-stable contract of the engine:
//
//	{fps, width, height, theme, durationFrames, durationSeconds,
//	 tracks: [{name, layer, defaultGap, cursorSeconds, componentCount}],
//	 components: [{type, startTime, duration, props, layer}]}
//
// Components are sorted ascending by layer and stable within a layer, so the
// generator can emit markup in paint order. The core makes no assumption
// about what a component's type string means.
package rendergraph

import (
	"github.com/reelworks/reelgraph/pkg/timeline"
)

// Graph is the flattened, serializable render graph for one timeline.
// Produce it with [FromTimeline]; round-trip it with [Marshal]/[Unmarshal]
// or [WriteFile]/[ReadFile].
type Graph struct {
	FPS             int                     `json:"fps"`
	Width           int                     `json:"width"`
	Height          int                     `json:"height"`
	Theme           string                  `json:"theme"`
	DurationFrames  int                     `json:"durationFrames"`
	DurationSeconds float64                 `json:"durationSeconds"`
	Tracks          []timeline.TrackSummary `json:"tracks"`
	Components      []Component             `json:"components"`
}

// Component is one flattened render-graph entry. Times are in seconds.
// ID and Track are additions on top of the stable contract; consumers that
// only know the contract fields can ignore them.
type Component struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"`
	StartTime float64        `json:"startTime"`
	Duration  float64        `json:"duration"`
	Props     map[string]any `json:"props"`
	Layer     int            `json:"layer"`
	Track     string         `json:"track,omitempty"`
}

// FromTimeline flattens all tracks of t into a render graph. Components are
// sorted ascending by layer, keeping per-track insertion order within a
// layer. The result is independent of t.
func FromTimeline(t *timeline.Timeline) Graph {
	placed := t.Components()
	conv := t.Converter()

	components := make([]Component, len(placed))
	for i, p := range placed {
		components[i] = Component{
			ID:        p.ID,
			Type:      p.Type,
			StartTime: conv.Seconds(p.StartFrame),
			Duration:  conv.Seconds(p.DurationFrames),
			Props:     serializeProps(p.Props),
			Layer:     p.Layer,
			Track:     p.Track,
		}
	}

	return Graph{
		FPS:             t.FPS(),
		Width:           t.Width(),
		Height:          t.Height(),
		Theme:           t.Theme(),
		DurationFrames:  t.TotalDurationFrames(),
		DurationSeconds: t.TotalDurationSeconds(),
		Tracks:          t.Tracks(),
		Components:      components,
	}
}

// SerializeValue converts a prop value to a JSON-safe form: primitives pass
// through, maps and lists are walked recursively, and nested
// [timeline.Component] trees become {type, props, layer} maps. Nested
// components are timing-inert layout children; they carry no start or
// duration of their own.
//
// SerializeValue never fails on acyclic input and is idempotent: applying it
// to its own output returns an equal value.
func SerializeValue(v any) any {
	switch t := v.(type) {
	case *timeline.Component:
		return map[string]any{
			"type":  t.Type,
			"props": serializeProps(t.Props),
			"layer": t.Layer,
		}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			out[k] = SerializeValue(mv)
		}
		return out
	case timeline.Props:
		return map[string]any(serializeProps(t))
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = SerializeValue(ev)
		}
		return out
	default:
		return v
	}
}

func serializeProps(props timeline.Props) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = SerializeValue(v)
	}
	return out
}
