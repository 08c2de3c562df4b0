package pipeline

import (
	"fmt"

	"github.com/reelworks/reelgraph/pkg/render/lanes"
	"github.com/reelworks/reelgraph/pkg/render/nodelink"
	"github.com/reelworks/reelgraph/pkg/rendergraph"
)

// EmitArtifacts serializes a render graph into every requested format.
// Formats are emitted independently; the first failure aborts the emit.
func EmitArtifacts(g rendergraph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := emitArtifact(g, format, opts)
		if err != nil {
			return nil, fmt.Errorf("emit %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func emitArtifact(g rendergraph.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return rendergraph.Marshal(g)

	case FormatSVG:
		laneOpts := []lanes.Option{lanes.WithScale(opts.Scale)}
		if opts.Ruler {
			laneOpts = append(laneOpts, lanes.WithRuler())
		}
		return lanes.Render(g, laneOpts...), nil

	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})), nil

	case FormatTree:
		dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.RenderSVG(dot)

	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}
