// Package cache provides content-addressed caching for pipeline results.
//
// The pipeline caches two kinds of values: built render graphs (keyed by the
// manifest content) and emitted artifacts (keyed by the graph content plus
// the render options). Keys are produced by a [Keyer] so alternative key
// schemes can be swapped in; values are stored through the [Cache] interface.
//
// Two backends are provided: [FileCache] for CLI usage and [NullCache] for
// tests or when caching is disabled.
package cache

import (
	"context"
	"time"
)

// TTLs per value kind. Graphs are cheap to rebuild, so they expire sooner
// than rendered artifacts.
const (
	TTLGraph    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get returns the value and whether it was present and unexpired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render inputs that affect an emitted artifact.
type ArtifactKeyOpts struct {
	Format   string
	Detailed bool
	Scale    float64
	Ruler    bool
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// GraphKey keys a built render graph by the manifest content hash.
	GraphKey(manifestHash string) string

	// ArtifactKey keys an emitted artifact by the graph content hash and
	// the render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a SHA-256
// over the identifying inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for render-graph caching.
func (k *DefaultKeyer) GraphKey(manifestHash string) string {
	return hashKey("graph", manifestHash)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
