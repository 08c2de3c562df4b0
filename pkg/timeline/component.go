package timeline

// Props stores arbitrary key-value configuration attached to a component.
// Values may be primitives, []any lists, map[string]any maps, or nested
// *Component trees. The engine imposes no shape constraints beyond
// acyclicity, which construction via
// [github.com/reelworks/reelgraph/pkg/compspec.Parse] guarantees.
type Props map[string]any

// Component describes a component that has not been placed yet: a type tag
// for a downstream code generator, a props map, and an optional Z-layer
// override. Components are timing-inert; timing exists only on the [Placed]
// value returned by [Timeline.Place].
//
// Layer zero means "inherit the target track's layer at placement". Setting
// any non-zero layer before placement overrides the track's layer.
type Component struct {
	Type  string
	Layer int
	Props Props
}

// NewComponent creates a component with the given type tag and props.
// A nil props map is replaced with an empty one.
func NewComponent(typ string, props Props) *Component {
	if props == nil {
		props = Props{}
	}
	return &Component{Type: typ, Props: props}
}

// WithLayer sets an explicit Z-layer override and returns the component for
// chaining. The override survives placement onto any track.
func (c *Component) WithLayer(layer int) *Component {
	c.Layer = layer
	return c
}

// Placed is a component resolved onto a track: concrete frame range, final
// Z-layer, owning track, and a unique ID. Placed values are created only by
// [Timeline.Place] and are not modified afterwards.
type Placed struct {
	ID             string
	Type           string
	Track          string
	StartFrame     int
	DurationFrames int
	Layer          int
	Props          Props
}

// EndFrame returns the first frame after the component's extent.
func (p *Placed) EndFrame() int { return p.StartFrame + p.DurationFrames }

// cloneProps shallow-copies a props map so later edits to the source
// component do not leak into the placed record. Nested values (including
// nested *Component trees) are shared; they are treated as immutable
// descriptors once placed.
func cloneProps(props Props) Props {
	out := make(Props, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
