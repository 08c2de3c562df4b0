package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/reelworks/reelgraph/pkg/rendergraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes track, timing, and layer in node labels.
	// When false, only the component type is shown.
	Detailed bool
}

type node struct {
	id     string
	label  string
	nested bool
}

type edge struct {
	from, to string
}

// ToDOT converts a render graph's component tree to Graphviz DOT format.
// Every placed component becomes a node; components nested inside another
// component's props become child nodes with an edge from their parent.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nested components are drawn with dashed outlines and grey fill to mark
// them as timing-inert children of their parent.
func ToDOT(g rendergraph.Graph, opts Options) string {
	var nodes []node
	var edges []edge

	seq := 0
	for _, c := range g.Components {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", c.Type, seq)
		}
		seq++
		nodes = append(nodes, node{id: id, label: fmtLabel(c, opts.Detailed)})
		nodes, edges = collectNested(nodes, edges, id, c.Props, &seq)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", n.label)}
		if n.nested {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// collectNested walks a serialized props map and records every nested
// component spec ({type, props, layer} map) as a node plus a parent edge,
// recursing into the child's own props. Map keys are visited in sorted
// order so the DOT output is deterministic.
func collectNested(nodes []node, edges []edge, parent string, props map[string]any, seq *int) ([]node, []edge) {
	for _, k := range slices.Sorted(maps.Keys(props)) {
		nodes, edges = collectValue(nodes, edges, parent, props[k], seq)
	}
	return nodes, edges
}

func collectValue(nodes []node, edges []edge, parent string, v any, seq *int) ([]node, []edge) {
	switch t := v.(type) {
	case map[string]any:
		typ, ok := t["type"].(string)
		if !ok || typ == "" {
			return nodes, edges
		}
		id := fmt.Sprintf("%s-%d", typ, *seq)
		*seq++
		label := typ
		if layer := intValue(t["layer"]); layer != 0 {
			label = fmt.Sprintf("%s\nlayer: %d", typ, layer)
		}
		nodes = append(nodes, node{id: id, label: label, nested: true})
		edges = append(edges, edge{from: parent, to: id})
		if childProps, ok := t["props"].(map[string]any); ok {
			nodes, edges = collectNested(nodes, edges, id, childProps, seq)
		}
	case []any:
		for _, ev := range t {
			nodes, edges = collectValue(nodes, edges, parent, ev, seq)
		}
	}
	return nodes, edges
}

// intValue reads a layer that may arrive as an int (in memory) or a
// float64 (after a JSON round trip).
func intValue(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	default:
		return 0
	}
}

func fmtLabel(c rendergraph.Component, detailed bool) string {
	if !detailed {
		return c.Type
	}

	parts := []string{
		fmt.Sprintf("track: %s", c.Track),
		fmt.Sprintf("start: %.2fs", c.StartTime),
		fmt.Sprintf("duration: %.2fs", c.Duration),
		fmt.Sprintf("layer: %d", c.Layer),
	}
	return c.Type + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
