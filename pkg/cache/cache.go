// Package cache stores rendered artifacts keyed by content hash.
//
// Rendering a scene through Graphviz is the only expensive step in the
// pipeline, so artifacts are cached under a key derived from the scene's
// JSON hash plus the render options. Any change to the dataset, the layout
// configuration or the selection changes the scene hash and therefore
// misses the cache; nothing ever needs explicit invalidation.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: XDG cache directory, used by the CLI
//   - [RedisCache]: shared cache for the API server
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that influence artifact bytes.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Renderer   string `json:"renderer"`
	EdgeLabels bool   `json:"edge_labels,omitempty"`
	Gaps       bool   `json:"gaps,omitempty"`
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// DefaultTTL is how long artifacts stay cached.
const DefaultTTL = 24 * time.Hour
