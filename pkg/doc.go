// Package pkg provides the core libraries for Reelgraph composition building.
//
// # Overview
//
// Reelgraph compiles declarative composition manifests into render graphs:
// flattened, serializable documents that downstream code generators turn
// into video markup. The pkg directory is organized into these areas:
//
//  1. [timecode] - Flexible time parsing and frame conversion
//  2. [timeline] - Tracks, placement directives, and the scheduling engine
//  3. [compspec] - Component specs ({type, config} maps) and prop conversion
//  4. [manifest] - TOML/JSON manifest loading and replay
//  5. [rendergraph] - The serializable render-graph contract
//  6. [render] - Lane diagrams and component-tree visualization
//  7. [pipeline] - Orchestration (load → build → emit) with caching
//  8. [cache] - Content-addressed result caching
//  9. [errors] - Structured error codes shared across the surface
//
// # Architecture
//
// The typical data flow through Reelgraph:
//
//	Composition Manifest (TOML/JSON)
//	         ↓
//	    [manifest] package (decode, validate, replay scenes)
//	         ↓
//	    [timeline] package (tracks, cursors, placement)
//	         ↓
//	    [rendergraph] package (flatten + serialize)
//	         ↓
//	    JSON/SVG/DOT output
//
// # Quick Start
//
// Build a timeline in code and serialize it:
//
//	import (
//	    "github.com/reelworks/reelgraph/pkg/rendergraph"
//	    "github.com/reelworks/reelgraph/pkg/timeline"
//	)
//
//	// 1. Create a timeline with the default track setup
//	tl, _ := timeline.New(timeline.Config{FPS: 30})
//
//	// 2. Place components; the cursor advances automatically
//	intro := timeline.NewComponent("TitleCard", timeline.Props{"title": "Hello"})
//	tl.Place(intro, "3s")
//
//	lower := timeline.NewComponent("LowerThird", nil)
//	tl.Place(lower, 2.0, timeline.OnTrack("overlay"), timeline.AlignTo("main", "-1s"))
//
//	// 3. Flatten and write the render graph
//	g := rendergraph.FromTimeline(tl)
//	rendergraph.WriteFile(g, "comp.json")
//
// Or drive everything from a manifest via the [pipeline] package:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Manifest: "comp.toml"})
//
// [timecode]: github.com/reelworks/reelgraph/pkg/timecode
// [timeline]: github.com/reelworks/reelgraph/pkg/timeline
// [compspec]: github.com/reelworks/reelgraph/pkg/compspec
// [manifest]: github.com/reelworks/reelgraph/pkg/manifest
// [rendergraph]: github.com/reelworks/reelgraph/pkg/rendergraph
// [render]: github.com/reelworks/reelgraph/pkg/render
// [pipeline]: github.com/reelworks/reelgraph/pkg/pipeline
// [cache]: github.com/reelworks/reelgraph/pkg/cache
// [errors]: github.com/reelworks/reelgraph/pkg/errors
package pkg
