package compspec

import (
	"errors"
	"testing"

	"github.com/reelworks/reelgraph/pkg/timeline"
)

func TestParse(t *testing.T) {
	c, err := Parse(map[string]any{
		"type": "LowerThird",
		"config": map[string]any{
			"title":    "Hello",
			"duration": 2.5,
		},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Type != "LowerThird" {
		t.Errorf("Type = %q, want LowerThird", c.Type)
	}
	if c.Props["title"] != "Hello" || c.Props["duration"] != 2.5 {
		t.Errorf("props not carried: %v", c.Props)
	}
}

func TestParseMissingType(t *testing.T) {
	for _, spec := range []map[string]any{
		{},
		{"config": map[string]any{}},
		{"type": 7},
		{"type": ""},
	} {
		if _, err := Parse(spec); !errors.Is(err, ErrMissingType) {
			t.Errorf("Parse(%v) error = %v, want ErrMissingType", spec, err)
		}
	}
}

func TestParseNestedSpecs(t *testing.T) {
	c, err := Parse(map[string]any{
		"type": "SplitScreen",
		"config": map[string]any{
			"left": map[string]any{
				"type":   "Image",
				"config": map[string]any{"src": "a.png"},
			},
			"panels": []any{
				map[string]any{"type": "Chart", "config": map[string]any{"kind": "bar"}},
				"spacer",
				map[string]any{"caption": "plain map, no type key"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	left, ok := c.Props["left"].(*timeline.Component)
	if !ok {
		t.Fatalf("left = %T, want *timeline.Component", c.Props["left"])
	}
	if left.Type != "Image" || left.Props["src"] != "a.png" {
		t.Errorf("nested component = %+v", left)
	}

	panels, ok := c.Props["panels"].([]any)
	if !ok || len(panels) != 3 {
		t.Fatalf("panels = %v", c.Props["panels"])
	}
	if chart, ok := panels[0].(*timeline.Component); !ok || chart.Type != "Chart" {
		t.Errorf("panels[0] = %v, want Chart component", panels[0])
	}
	if panels[1] != "spacer" {
		t.Errorf("panels[1] = %v, want passthrough string", panels[1])
	}
	if plain, ok := panels[2].(map[string]any); !ok || plain["caption"] != "plain map, no type key" {
		t.Errorf("panels[2] = %v, want passthrough map", panels[2])
	}
}

func TestConvertValuePassthrough(t *testing.T) {
	for _, v := range []any{nil, true, 42, 1.5, "text"} {
		if got := ConvertValue(v); got != v {
			t.Errorf("ConvertValue(%v) = %v", v, got)
		}
	}
}

func TestConvertProps(t *testing.T) {
	props := ConvertProps(map[string]any{
		"badge": map[string]any{"type": "Badge"},
		"count": 3,
	})
	if _, ok := props["badge"].(*timeline.Component); !ok {
		t.Errorf("badge = %T, want *timeline.Component", props["badge"])
	}
	if props["count"] != 3 {
		t.Errorf("count = %v", props["count"])
	}

	if got := ConvertProps(nil); got == nil || len(got) != 0 {
		t.Errorf("ConvertProps(nil) = %v, want empty map", got)
	}
}
