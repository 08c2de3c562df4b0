package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reelworks/reelgraph/pkg/cache"
	"github.com/reelworks/reelgraph/pkg/manifest"
	"github.com/reelworks/reelgraph/pkg/observability"
	"github.com/reelworks/reelgraph/pkg/rendergraph"
	"github.com/reelworks/reelgraph/pkg/timecode"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → emit pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	m, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Manifest = m
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.SceneCount = len(m.Scenes)

	r.Logger.Info("loaded manifest",
		"path", opts.Manifest,
		"scenes", len(m.Scenes),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.TrackCount = len(g.Tracks)
	result.Stats.ComponentCount = len(g.Components)
	result.CacheInfo.BuildHit = buildHit

	// Compute graph hash for cache keys and server responses
	if graphData, err := rendergraph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("built render graph",
		"tracks", len(g.Tracks),
		"components", len(g.Components),
		"frames", g.DurationFrames,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Emit
	emitStart := time.Now()
	artifacts, emitHit, err := r.EmitWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.EmitTime = time.Since(emitStart)
	result.CacheInfo.EmitHit = emitHit

	r.Logger.Info("emitted outputs",
		"formats", opts.Formats,
		"duration", result.Stats.EmitTime)

	return result, nil
}

// Load reads and validates the manifest named by opts.Manifest.
func (r *Runner) Load(ctx context.Context, opts Options) (*manifest.Manifest, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Build().OnLoadStart(ctx, opts.Manifest)

	m, err := manifest.Load(opts.Manifest)

	scenes := 0
	if m != nil {
		scenes = len(m.Scenes)
	}
	observability.Build().OnLoadComplete(ctx, opts.Manifest, scenes, time.Since(start), err)
	return m, err
}

// BuildWithCacheInfo builds the render graph with caching and returns cache
// hit info. The cache key is derived from the manifest content, so edits to
// the manifest invalidate the entry.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, m *manifest.Manifest, opts Options) (rendergraph.Graph, bool, error) {
	manifestData, err := json.Marshal(m)
	if err != nil {
		return rendergraph.Graph{}, false, fmt.Errorf("serialize manifest for cache key: %w", err)
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash(manifestData))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := rendergraph.Unmarshal(data); err == nil {
				return g, true, nil // Cache hit
			}
			// Undecodable entry falls through to a rebuild.
		}
	}

	tl, err := m.Build()
	if err != nil {
		return rendergraph.Graph{}, false, err
	}
	g := rendergraph.FromTimeline(tl)

	conv := timecode.Converter{FPS: g.FPS}
	for _, c := range g.Components {
		observability.Build().OnPlace(ctx, c.Track, c.Type,
			conv.FramesFromSeconds(c.StartTime), conv.FramesFromSeconds(c.Duration))
	}

	if data, err := rendergraph.Marshal(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph)
	}

	return g, false, nil // Cache miss
}

// Build is a convenience wrapper that discards the cache hit info.
func (r *Runner) Build(ctx context.Context, m *manifest.Manifest, opts Options) (rendergraph.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, m, opts)
	return g, err
}

// EmitWithCacheInfo emits artifacts with caching and returns cache hit info.
func (r *Runner) EmitWithCacheInfo(ctx context.Context, g rendergraph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForEmit(); err != nil {
		return nil, false, err
	}

	graphData, err := rendergraph.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	start := time.Now()
	observability.Build().OnEmitStart(ctx, opts.Formats)

	emitted, err := EmitArtifacts(g, opts)

	observability.Build().OnEmitComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range emitted {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return emitted, false, nil // Cache miss
}

// Emit is a convenience wrapper that discards the cache hit info.
func (r *Runner) Emit(ctx context.Context, g rendergraph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.EmitWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
