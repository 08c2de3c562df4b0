// Package timeline implements the track scheduling engine behind reelgraph.
//
// A [Timeline] owns a registry of named, Z-ordered [Track] lanes and converts
// author intent ("stack this after the last thing", "align this overlay to
// the main track plus half a second", "put this at exactly frame 100") into
// concrete, resolved frame ranges.
//
// # Components
//
// Authors describe content as [Component] values: a type tag plus an
// arbitrary props map whose values may be primitives, lists, maps, or nested
// *Component trees. Components carry no timing of their own. Placing one
// onto a timeline produces a [Placed] value with resolved start and duration
// frames, a Z-layer, and a stable ID; the input Component is never mutated.
//
// # Placement
//
// [Timeline.Place] resolves a start frame using the first matching directive:
//
//  1. [AtFrame] - use the given frame verbatim
//  2. [AlignTo] - another track's cursor plus an offset
//  3. [GapBefore] - the target track's cursor plus an explicit gap
//  4. default - the target track's cursor plus its default gap
//
// After every placement the target track's cursor advances to
// max(cursor, start+duration), so the cursor always reflects the furthest
// committed extent even when explicit, aligned, and auto-stacked placements
// are interleaved on the same track.
//
// # Concurrency
//
// A Timeline is a single-threaded authoring artifact. It performs no locking;
// concurrent mutation from multiple goroutines requires external
// synchronization.
package timeline
