// Package cache provides artifact caching for rendered service maps.
//
// Rendering a map through Graphviz is the slowest step in the pipeline, so
// rendered artifacts (DOT, SVG, PNG) are cached keyed by the graph content,
// the ordered issue-node selection, and the output format. Re-rendering an
// unchanged session is a cache hit.
//
// Two implementations are provided: [FileCache] for persistent CLI usage
// and [NullCache] to disable caching entirely (--no-cache).
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts as opaque byte slices.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact.
// The key covers everything the output depends on: the serialized graph,
// the ordered issue selection, and the format. Issue order matters because
// the analyzer's highlighting is order-sensitive downstream.
func ArtifactKey(graphJSON []byte, issueNodes []string, format string) string {
	return hashKey("render", string(graphJSON), issueNodes, format)
}
