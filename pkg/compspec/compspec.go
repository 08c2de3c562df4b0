// Package compspec converts declarative component specs into component trees.
//
// A spec is a plain map (typically decoded from JSON or TOML) of the shape
//
//	{"type": "LowerThird", "config": {"title": "Hi", "badge": {...}}}
//
// Any config value that is itself a {type, config} map becomes a nested
// [timeline.Component]; lists are walked element-wise; values lacking a
// "type" key pass through unchanged. Because every node is built fresh from
// decoded data, the resulting tree is acyclic by construction - the
// placement engine never has to re-check this.
package compspec

import (
	"errors"
	"fmt"

	"github.com/reelworks/reelgraph/pkg/timeline"
)

// Spec map keys.
const (
	typeKey   = "type"
	configKey = "config"
)

// ErrMissingType is returned by [Parse] when the spec map has no "type" key
// with a non-empty string value.
var ErrMissingType = errors.New(`component spec needs a "type" string`)

// Parse converts a {type, config} map into a component tree.
// The config map becomes the component's props, with nested specs recursively
// converted. Returns ErrMissingType if the top-level map is not a spec.
func Parse(spec map[string]any) (*timeline.Component, error) {
	typ, ok := specType(spec)
	if !ok {
		return nil, fmt.Errorf("%w: got keys %v", ErrMissingType, keys(spec))
	}

	props := timeline.Props{}
	if cfg, ok := spec[configKey].(map[string]any); ok {
		for k, v := range cfg {
			props[k] = ConvertValue(v)
		}
	}
	return timeline.NewComponent(typ, props), nil
}

// ConvertProps converts every value of a props map, turning nested
// {type, config} maps into components. A nil input yields an empty map.
func ConvertProps(props map[string]any) timeline.Props {
	out := make(timeline.Props, len(props))
	for k, v := range props {
		out[k] = ConvertValue(v)
	}
	return out
}

// ConvertValue converts a single decoded value: spec-shaped maps become
// nested components, other maps and lists are walked recursively, and
// everything else passes through unchanged.
func ConvertValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if typ, ok := specType(t); ok {
			props := timeline.Props{}
			if cfg, ok := t[configKey].(map[string]any); ok {
				for k, cv := range cfg {
					props[k] = ConvertValue(cv)
				}
			}
			return timeline.NewComponent(typ, props)
		}
		out := make(map[string]any, len(t))
		for k, mv := range t {
			out[k] = ConvertValue(mv)
		}
		return out

	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = ConvertValue(ev)
		}
		return out

	default:
		return v
	}
}

// specType reports whether m looks like a component spec and returns its type tag.
func specType(m map[string]any) (string, bool) {
	typ, ok := m[typeKey].(string)
	return typ, ok && typ != ""
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
