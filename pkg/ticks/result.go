package ticks

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Result is the winning tick grid. It is immutable; labels are computed on
// demand from the grid parameters.
type Result struct {
	score      float64
	dMin, dMax float64
	lMin, lMax float64
	lStep      float64
	q          float64
	k          int
	integer    bool
	extMin     float64
	extMax     float64
	stats      Stats
}

func newResult(c candidate, dMin, dMax float64, stats Stats) *Result {
	r := &Result{
		score:   c.score,
		dMin:    dMin,
		dMax:    dMax,
		lMin:    c.lMin,
		lMax:    c.lMax,
		lStep:   c.lStep,
		q:       c.q,
		k:       c.k,
		integer: isIntegral(c.lMin) && isIntegral(c.lStep),
		extMin:  math.Min(dMin, c.lMin),
		extMax:  math.Max(dMax, c.lMax),
		stats:   stats,
	}
	if r.integer {
		r.lMin = math.Round(r.lMin)
		r.lMax = math.Round(r.lMax)
		r.lStep = math.Round(r.lStep)
	}
	return r
}

func isIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) < eps
}

// Score is the combined weighted score of the grid.
func (r *Result) Score() float64 { return r.score }

// DomainMin is the lower domain bound passed to Generate.
func (r *Result) DomainMin() float64 { return r.dMin }

// DomainMax is the upper domain bound passed to Generate.
func (r *Result) DomainMax() float64 { return r.dMax }

// Min is the first tick value.
func (r *Result) Min() float64 { return r.lMin }

// Max is the last tick value.
func (r *Result) Max() float64 { return r.lMax }

// Step is the spacing between ticks.
func (r *Result) Step() float64 { return r.lStep }

// Count is the number of ticks (k).
func (r *Result) Count() int { return r.k }

// Nice is the nice number the step was built from.
func (r *Result) Nice() float64 { return r.q }

// IsInteger reports whether all ticks are whole numbers.
func (r *Result) IsInteger() bool { return r.integer }

// Extents returns the union of the domain and the tick range.
func (r *Result) Extents() (lo, hi float64) { return r.extMin, r.extMax }

// Stats describes the search that produced r.
func (r *Result) Stats() Stats { return r.stats }

// Positions returns the Count tick values in ascending order.
func (r *Result) Positions() []float64 {
	locs := make([]float64, r.k)
	for t := range locs {
		locs[t] = r.lMin + float64(t)*r.lStep
	}
	return locs
}

// DomainPositions returns the tick values inside [DomainMin, DomainMax].
func (r *Result) DomainPositions() []float64 {
	var locs []float64
	for _, v := range r.Positions() {
		if r.dMin <= v && v <= r.dMax {
			locs = append(locs, v)
		}
	}
	return locs
}

// Labels formats every position. Integer grids print as plain integers.
// Otherwise format is applied with fmt.Sprintf, or the shortest decimal
// representation is used when format is empty; the labels are then padded
// with trailing zeros to a common number of decimals.
func (r *Result) Labels(format string) []string {
	return r.labels(r.Positions(), format)
}

// DomainLabels formats DomainPositions the same way as Labels. Padding is
// computed over this subset only.
func (r *Result) DomainLabels(format string) []string {
	return r.labels(r.DomainPositions(), format)
}

func (r *Result) String() string {
	return fmt.Sprintf("[%g, %g] step %g (k=%d, q=%g, score=%.4f)", r.lMin, r.lMax, r.lStep, r.k, r.q, r.score)
}

func (r *Result) labels(locs []float64, format string) []string {
	labels := make([]string, len(locs))
	for i, v := range locs {
		if v == 0 {
			v = 0 // drop the sign of -0
		}
		switch {
		case r.integer:
			labels[i] = strconv.FormatFloat(v, 'f', 0, 64)
		case format != "":
			labels[i] = fmt.Sprintf(format, v)
		default:
			labels[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	if r.integer {
		return labels
	}
	return padDecimals(labels)
}

func padDecimals(labels []string) []string {
	width := 0
	for _, l := range labels {
		width = max(width, decimals(l))
	}
	if width == 0 {
		return labels
	}
	for i, l := range labels {
		labels[i] = padTo(l, width)
	}
	return labels
}

// decimals counts the digits following the first decimal point.
func decimals(l string) int {
	dot := strings.IndexByte(l, '.')
	if dot < 0 {
		return 0
	}
	return digitRunEnd(l, dot+1) - dot - 1
}

func padTo(l string, width int) string {
	if dot := strings.IndexByte(l, '.'); dot >= 0 {
		end := digitRunEnd(l, dot+1)
		return l[:end] + strings.Repeat("0", width-(end-dot-1)) + l[end:]
	}
	first := strings.IndexAny(l, "0123456789")
	if first < 0 {
		return l
	}
	end := digitRunEnd(l, first)
	return l[:end] + "." + strings.Repeat("0", width) + l[end:]
}

func digitRunEnd(l string, i int) int {
	for i < len(l) && l[i] >= '0' && l[i] <= '9' {
		i++
	}
	return i
}
