// Package pipeline provides the core composition pipeline for Reelgraph.
//
// This package implements the complete load → build → emit pipeline that
// can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate the composition manifest
//  2. Build: Replay the manifest through the timeline engine and flatten
//     the result into a render graph
//  3. Emit: Serialize the render graph into output formats (JSON, lane
//     SVG, DOT, component-tree SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Manifest: "comp.toml",
//	    Formats:  []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
//
// Run individual stages:
//
//	m, err := runner.Load(ctx, opts)
//	g, err := runner.Build(ctx, m, opts)
//	artifacts, err := runner.Emit(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reelworks/reelgraph/pkg/cache"
	"github.com/reelworks/reelgraph/pkg/manifest"
	"github.com/reelworks/reelgraph/pkg/rendergraph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the default lane-diagram scale in pixels per second.
	DefaultScale = 100.0

	// DefaultFormat is emitted when no formats are requested.
	DefaultFormat = FormatJSON
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatTree: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the composition pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Manifest string `json:"manifest"`

	// Emit options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // node labels carry track/timing/layer
	Scale    float64  `json:"scale,omitempty"`    // lane diagram pixels per second
	Ruler    bool     `json:"ruler,omitempty"`    // lane diagram second ticks

	// Refresh bypasses the cache and rebuilds everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Manifest is the loaded composition manifest.
	Manifest *manifest.Manifest

	// Graph is the built render graph.
	Graph rendergraph.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Artifacts contains emitted outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SceneCount     int
	TrackCount     int
	ComponentCount int
	LoadTime       time.Duration
	BuildTime      time.Duration
	EmitTime       time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit bool // Whether the render graph came from cache
	EmitHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, dot, tree)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetEmitDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetEmitDefaults sets default values for emitting.
func (o *Options) SetEmitDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForEmit validates and sets defaults for emitting.
func (o *Options) ValidateForEmit() error {
	o.SetEmitDefaults()
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for artifact emission.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Scale:    o.Scale,
		Ruler:    o.Ruler,
	}
}
