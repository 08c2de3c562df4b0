// Package render provides visualization rendering for render graphs.
//
// # Overview
//
// This package groups the visual output paths that turn a
// [rendergraph.Graph] into something a human can look at:
//
//   - Lane diagrams (in [lanes] subpackage): tracks as horizontal bands
//     with components positioned on a time axis
//   - Component trees (in [nodelink] subpackage): Graphviz node-link
//     diagrams of the component nesting structure
//
// # Lane Diagrams
//
// The [lanes] subpackage writes self-contained SVG directly, without any
// external tool. Tracks are drawn top to bottom in descending layer order,
// matching paint order in the final composition.
//
//	svg := lanes.Render(g, lanes.WithScale(120))
//
// # Component Trees
//
// The [nodelink] subpackage renders the nesting relationships between
// components (a LowerThird containing a Badge, say) as a directed graph
// using Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [rendergraph.Graph]: github.com/reelworks/reelgraph/pkg/rendergraph.Graph
// [lanes]: github.com/reelworks/reelgraph/pkg/render/lanes
// [nodelink]: github.com/reelworks/reelgraph/pkg/render/nodelink
package render
