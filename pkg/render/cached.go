package render

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoforge/pkg/cache"
)

// Renderer renders DOT to SVG through a cache.
type Renderer struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRenderer returns a renderer backed by c. A nil c disables caching.
func NewRenderer(c cache.Cache, logger *log.Logger) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{cache: c, logger: logger}
}

// SVG returns the SVG for dot and whether it came from the cache. Cache
// failures are logged and fall through to a fresh render.
func (r *Renderer) SVG(ctx context.Context, dot string) ([]byte, bool, error) {
	key := cache.DiagramKey(dot, "svg")
	if data, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Debug("diagram cache read failed", "error", err)
	} else if ok {
		return data, true, nil
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}
	if err := r.cache.Set(ctx, key, svg, cache.DefaultTTL); err != nil {
		r.logger.Debug("diagram cache write failed", "error", err)
	}
	return svg, false, nil
}
