package plot

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/svgplot/pkg/observability"
	"github.com/matzehuels/svgplot/pkg/ticks"
)

// axisMargin is the fraction of the data range added on each side.
const axisMargin = 0.05

// axis is one plot axis after tick placement.
type axis struct {
	lo, hi    float64 // margin-expanded data range
	length    float64 // pixels
	positions []float64
	labels    []string
}

func newAxis(ctx context.Context, name string, values []float64, cfg axisConfig, length float64) (axis, error) {
	lo, hi := dataRange(values, cfg.includeZero)

	start := time.Now()
	res, err := ticks.Generate(lo, hi, ticks.WithDensity(cfg.density))
	if err != nil {
		return axis{}, fmt.Errorf("%s axis: %w", name, err)
	}
	observability.Plot().OnTicks(ctx, name, res.Count(), res.Score(), time.Since(start))

	return axis{
		lo:        lo,
		hi:        hi,
		length:    length,
		positions: res.DomainPositions(),
		labels:    res.DomainLabels(cfg.format),
	}, nil
}

// dataRange returns the span of values, optionally stretched to include 0,
// widened by axisMargin on each side. Values too close together for
// ticks.Generate are first widened by 10% of their magnitude (1 at zero).
func dataRange(values []float64, includeZero bool) (lo, hi float64) {
	lo, hi = slices.Min(values), slices.Max(values)
	if includeZero {
		lo, hi = min(lo, 0), max(hi, 0)
	}
	if mag := math.Max(math.Abs(lo), math.Abs(hi)); hi-lo < ticks.MinRelativeSpan*mag || lo == hi {
		w := mag / 10
		if w == 0 {
			w = 1
		}
		lo, hi = lo-w, hi+w
	}
	m := (hi - lo) * axisMargin
	return lo - m, hi + m
}

// mapper maps data values to pixel offsets from the start of the axis.
// Inverted axes put hi at offset 0.
func (a axis) mapper(inverted bool) axisMap {
	if inverted {
		return newAxisMap(a.hi, a.lo, a.length)
	}
	return newAxisMap(a.lo, a.hi, a.length)
}

// axisMap is a linear map from [from, to] onto [0, length].
type axisMap struct {
	from  float64
	ratio float64
}

func newAxisMap(from, to, length float64) axisMap {
	return axisMap{from: from, ratio: length / (to - from)}
}

func (m axisMap) at(v float64) float64 {
	return (v - m.from) * m.ratio
}
