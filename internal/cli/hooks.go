package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgplot/pkg/observability"
)

// logHooks reports plot and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PlotHooks  = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
)

func (h *logHooks) OnTicks(_ context.Context, axis string, count int, score float64, d time.Duration) {
	h.logger.Debug("ticks", "axis", axis, "count", count, "score", score, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderStart(_ context.Context, points int) {
	h.logger.Debug("render start", "points", points)
}

func (h *logHooks) OnRenderComplete(_ context.Context, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "err", err, "took", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("render done", "bytes", size, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
