package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgplot/pkg/cache"
	pkgio "github.com/matzehuels/svgplot/pkg/io"
	"github.com/matzehuels/svgplot/pkg/observability"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute renders doc in every requested format, serving artifacts from the
// cache when all of them are present.
func (r *Runner) Execute(ctx context.Context, doc *pkgio.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc = applyOverrides(doc, opts)

	hash, err := documentHash(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		DocumentHash: hash,
		Stats:        Stats{Points: len(doc.Points)},
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, hash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			result.Stats.Bytes = totalSize(artifacts)
			r.Logger.Debug("artifacts from cache", "hash", hash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	start := time.Now()
	artifacts, err := Render(ctx, doc.Plot(), opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.Stats.Bytes = totalSize(artifacts)

	r.Logger.Info("rendered plot",
		"points", result.Stats.Points,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}

	return result, nil
}

// cached returns all requested formats from the cache, or false if any one
// is missing.
func (r *Runner) cached(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyOverrides returns doc with the non-empty document overrides of opts
// applied. doc itself is not modified.
func applyOverrides(doc *pkgio.Document, opts Options) *pkgio.Document {
	if opts.XLegend == "" && opts.YLegend == "" && !opts.FlipX {
		return doc
	}
	out := *doc
	if opts.XLegend != "" {
		out.XLegend = opts.XLegend
	}
	if opts.YLegend != "" {
		out.YLegend = opts.YLegend
	}
	if opts.FlipX {
		out.FlipX = true
	}
	return &out
}

// documentHash hashes the canonical JSON form of doc.
func documentHash(doc *pkgio.Document) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return "", fmt.Errorf("serialize document for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

func totalSize(artifacts map[string][]byte) int {
	n := 0
	for _, data := range artifacts {
		n += len(data)
	}
	return n
}
