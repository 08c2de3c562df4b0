package nodelink

import (
	"strings"
	"testing"

	"github.com/reelworks/reelgraph/pkg/rendergraph"
)

func sampleGraph() rendergraph.Graph {
	return rendergraph.Graph{
		Components: []rendergraph.Component{
			{
				ID:        "c1",
				Type:      "LowerThird",
				Track:     "overlay",
				StartTime: 1,
				Duration:  2,
				Layer:     10,
				Props: map[string]any{
					"title": "Breaking",
					"badge": map[string]any{
						"type":  "Badge",
						"layer": 5,
						"props": map[string]any{"text": "LIVE"},
					},
				},
			},
			{ID: "c2", Type: "TitleCard", Track: "main", StartTime: 0, Duration: 3},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("output does not start with digraph: %.40s", dot)
	}
	for _, want := range []string{
		`"c1" [label="LowerThird"]`,
		`"c2" [label="TitleCard"]`,
		`"c1" -> "Badge-`,
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{Detailed: true})

	for _, want := range []string{"track: overlay", "start: 1.00s", "duration: 2.00s", "layer: 10"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTNestedLayerLabel(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	if !strings.Contains(dot, `label="Badge\nlayer: 5"`) {
		t.Errorf("nested badge should carry its layer override:\n%s", dot)
	}
}

func TestToDOTSkipsPlainMaps(t *testing.T) {
	g := rendergraph.Graph{Components: []rendergraph.Component{{
		ID:   "c1",
		Type: "Scene",
		Props: map[string]any{
			"style": map[string]any{"color": "red"},
		},
	}}}

	dot := ToDOT(g, Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("plain prop maps must not become edges:\n%s", dot)
	}
}

func TestToDOTComponentsInLists(t *testing.T) {
	g := rendergraph.Graph{Components: []rendergraph.Component{{
		ID:   "c1",
		Type: "Grid",
		Props: map[string]any{
			"cells": []any{
				map[string]any{"type": "Cell", "props": map[string]any{}},
				map[string]any{"type": "Cell", "props": map[string]any{}},
			},
		},
	}}}

	dot := ToDOT(g, Options{})
	if got := strings.Count(dot, `"c1" ->`); got != 2 {
		t.Errorf("edges from c1 = %d, want 2:\n%s", got, dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not set from viewBox: %s", out)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>")
	if got := normalizeViewBox(in); string(got) != "<svg>" {
		t.Errorf("unmatched svg should pass through, got %s", got)
	}
}
