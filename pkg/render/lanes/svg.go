// Package lanes renders a render graph as an SVG lane diagram.
//
// Each track becomes a horizontal band, ordered top to bottom by descending
// layer so the diagram reads in paint order. Components are drawn as rounded
// rectangles positioned on a shared time axis, labelled with their type.
//
// The output is a single self-contained SVG document:
//
//	svg := lanes.Render(g, lanes.WithScale(120), lanes.WithRuler())
package lanes

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/reelworks/reelgraph/pkg/rendergraph"
	"github.com/reelworks/reelgraph/pkg/timeline"
)

const (
	defaultScale      = 100.0 // pixels per second
	defaultLaneHeight = 56.0
	labelWidth        = 140.0
	lanePadding       = 6.0
	rulerHeight       = 24.0
	minBlockWidth     = 2.0
)

// Deterministic fill palette, indexed by a hash of the component type so the
// same type gets the same color across renders.
var palette = []string{
	"#4e79a7", "#f28e2b", "#59a14f", "#e15759",
	"#76b7b2", "#edc948", "#b07aa1", "#9c755f",
}

// Option configures lane rendering via [Render].
type Option func(*renderer)

type renderer struct {
	scale      float64
	laneHeight float64
	ruler      bool
}

// WithScale sets the horizontal scale in pixels per second.
func WithScale(pxPerSecond float64) Option {
	return func(r *renderer) {
		if pxPerSecond > 0 {
			r.scale = pxPerSecond
		}
	}
}

// WithLaneHeight sets the height of each track band in pixels.
func WithLaneHeight(px float64) Option {
	return func(r *renderer) {
		if px > 0 {
			r.laneHeight = px
		}
	}
}

// WithRuler adds a one-second tick ruler above the lanes.
func WithRuler() Option { return func(r *renderer) { r.ruler = true } }

// Render draws g as an SVG lane diagram. Tracks appear in the order given by
// g.Tracks (descending layer); components land in their track's band at
// startTime * scale. Components whose track is unknown are skipped.
func Render(g rendergraph.Graph, opts ...Option) []byte {
	r := renderer{scale: defaultScale, laneHeight: defaultLaneHeight}
	for _, opt := range opts {
		opt(&r)
	}

	// The canvas must fit the longest track, not just the flattened total,
	// since a cursor can sit past its last component.
	seconds := g.DurationSeconds
	for _, ts := range g.Tracks {
		seconds = math.Max(seconds, ts.CursorSeconds)
	}

	top := 0.0
	if r.ruler {
		top = rulerHeight
	}
	width := labelWidth + seconds*r.scale + lanePadding*2
	height := top + float64(len(g.Tracks))*r.laneHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		width, height, width, height)

	for i, ts := range g.Tracks {
		renderLane(&buf, r, ts, top+float64(i)*r.laneHeight, width, i%2 == 1)
	}

	if r.ruler {
		renderRuler(&buf, r, seconds, height)
	}

	laneIndex := make(map[string]int, len(g.Tracks))
	for i, ts := range g.Tracks {
		laneIndex[ts.Name] = i
	}
	for _, c := range g.Components {
		i, ok := laneIndex[c.Track]
		if !ok {
			continue
		}
		renderBlock(&buf, r, c, top+float64(i)*r.laneHeight)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLane(buf *bytes.Buffer, r renderer, ts timeline.TrackSummary, y, width float64, shaded bool) {
	fill := "#ffffff"
	if shaded {
		fill = "#f5f5f5"
	}
	fmt.Fprintf(buf, `  <rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		y, width, r.laneHeight, fill)
	fmt.Fprintf(buf, `  <text x="8" y="%.1f" font-size="12" fill="#333">%s</text>`+"\n",
		y+r.laneHeight/2+4, escape(ts.Name))
	fmt.Fprintf(buf, `  <text x="8" y="%.1f" font-size="9" fill="#999">layer %d</text>`+"\n",
		y+r.laneHeight/2+16, ts.Layer)
}

func renderRuler(buf *bytes.Buffer, r renderer, seconds, height float64) {
	for s := 0.0; s <= seconds+1e-9; s++ {
		x := labelWidth + s*r.scale
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ccc" stroke-width="1"/>`+"\n",
			x, rulerHeight-6, x, height)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="10" fill="#888">%.0fs</text>`+"\n",
			x+3, rulerHeight-9, s)
	}
}

func renderBlock(buf *bytes.Buffer, r renderer, c rendergraph.Component, laneY float64) {
	x := labelWidth + c.StartTime*r.scale
	w := math.Max(c.Duration*r.scale, minBlockWidth)
	y := laneY + lanePadding
	h := r.laneHeight - lanePadding*2

	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="#333" stroke-width="1"><title>%s [%.2fs +%.2fs]</title></rect>`+"\n",
		x, y, w, h, fillFor(c.Type), escape(c.Type), c.StartTime, c.Duration)

	// Labels only fit on blocks wide enough to hold a few characters.
	if w >= 40 {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" fill="#fff">%s</text>`+"\n",
			x+6, y+h/2+4, escape(c.Type))
	}
}

func fillFor(componentType string) string {
	h := fnv.New32a()
	h.Write([]byte(componentType))
	return palette[h.Sum32()%uint32(len(palette))]
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
