// Package cache stores rendered artifacts between runs.
//
// A [Cache] is a byte store keyed by strings. [FileCache] keeps entries on
// disk for the CLI; [NullCache] stores nothing and is used when caching is
// disabled. Keys are built by a [Keyer] from a content hash of the input
// document and the render options, so a changed document or option never
// hits a stale entry.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid. Keys already
// change with the input, so this only bounds disk usage.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a key-value store for rendered artifacts.
type Cache interface {
	// Get returns the stored data and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output format.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	IncludeZeroX bool    `json:"include_zero_x,omitempty"`
	IncludeZeroY bool    `json:"include_zero_y,omitempty"`
	FormatX      string  `json:"format_x,omitempty"`
	FormatY      string  `json:"format_y,omitempty"`
	DensityX     int     `json:"density_x"`
	DensityY     int     `json:"density_y"`
	Scale        float64 `json:"scale,omitempty"`
}

// DefaultKeyer prefixes keys with their kind and hashes the rest.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the document hash and opts.
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}
