package ticks

import (
	"math"
	"slices"

	"github.com/matzehuels/svgplot/pkg/errors"
)

const (
	// DefaultDensity is the target number of ticks (m).
	DefaultDensity = 4

	// DefaultMaxSteps caps the loop-body entries of one search. Pruning
	// normally ends the search after a few thousand steps; the cap only
	// matters for weight vectors that disable a bound (e.g. zero simplicity
	// weight).
	DefaultMaxSteps = 1_000_000
)

// DefaultNiceNumbers is the preferred mantissa list Q, simplest first.
var DefaultNiceNumbers = []float64{1, 5, 2, 2.5, 4, 3}

// DefaultWeights are the (simplicity, coverage, density, legibility)
// weights from Talbot, Lin and Hanrahan.
var DefaultWeights = Weights{Simplicity: 0.25, Coverage: 0.2, Density: 0.5, Legibility: 0.05}

// Option configures [Generate].
type Option func(*config)

type config struct {
	density  int
	nice     []float64
	weights  Weights
	flexible bool
	maxSteps int
}

// WithDensity sets the target tick count m. It must be at least 2.
func WithDensity(m int) Option { return func(c *config) { c.density = m } }

// WithNiceNumbers replaces the nice-number list Q. Order encodes preference.
func WithNiceNumbers(q ...float64) Option {
	return func(c *config) { c.nice = slices.Clone(q) }
}

// WithWeights replaces the scoring weights.
func WithWeights(w Weights) Option { return func(c *config) { c.weights = w } }

// WithFlexible controls whether labels may stop short of the domain.
// When false, the first label is at or below dMin and the last at or above
// dMax.
func WithFlexible(flexible bool) Option { return func(c *config) { c.flexible = flexible } }

// WithMaxSteps bounds the search. See [DefaultMaxSteps].
func WithMaxSteps(n int) Option { return func(c *config) { c.maxSteps = n } }

func newConfig(opts []Option) config {
	c := config{
		density:  DefaultDensity,
		nice:     DefaultNiceNumbers,
		weights:  DefaultWeights,
		flexible: true,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Generate picks the tick grid for [dMin, dMax] that maximizes the combined
// simplicity, coverage, density and legibility score.
//
// It returns an INVALID_DOMAIN error when dMin >= dMax or either bound is
// not finite, INVALID_CONFIG for bad options, and SEARCH_EXHAUSTED when no
// candidate was accepted before the step limit.
func Generate(dMin, dMax float64, opts ...Option) (*Result, error) {
	c := newConfig(opts)
	if err := validateDomain(dMin, dMax); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	s := newSearch(dMin, dMax, c)
	best, stats := s.run()
	if best == nil {
		return nil, errors.New(errors.ErrCodeSearchExhausted,
			"no tick grid found for [%g, %g] (%s after %d steps)", dMin, dMax, stats.Termination, stats.Steps)
	}
	return newResult(*best, dMin, dMax, stats), nil
}

// MinRelativeSpan is the narrowest domain width, relative to the larger
// bound magnitude, that Generate accepts. Narrower domains cannot be
// stepped through in float64 at their magnitude.
const MinRelativeSpan = 1e-12

func validateDomain(dMin, dMax float64) error {
	if !isFinite(dMin) || !isFinite(dMax) {
		return errors.New(errors.ErrCodeInvalidDomain, "domain bounds must be finite, got [%g, %g]", dMin, dMax)
	}
	if dMin >= dMax {
		return errors.New(errors.ErrCodeInvalidDomain, "d_min (%g) must be below d_max (%g)", dMin, dMax)
	}
	span := dMax - dMin
	if !isFinite(span) {
		return errors.New(errors.ErrCodeInvalidDomain, "domain span overflows: [%g, %g]", dMin, dMax)
	}
	if span < MinRelativeSpan*math.Max(math.Abs(dMin), math.Abs(dMax)) {
		return errors.New(errors.ErrCodeInvalidDomain, "domain [%g, %g] is too narrow for its magnitude", dMin, dMax)
	}
	// Coverage divides by (0.1*span)^2.
	if r := 0.1 * span; !isFinite(r*r) || r*r == 0 {
		return errors.New(errors.ErrCodeInvalidDomain, "domain span %g is out of the scorable range", span)
	}
	return nil
}

func (c config) validate() error {
	if len(c.nice) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "nice number list must not be empty")
	}
	for _, q := range c.nice {
		if !isFinite(q) || q <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "nice numbers must be positive and finite, got %g", q)
		}
	}
	if c.density < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "density must be at least 2, got %d", c.density)
	}
	w := c.weights
	for _, v := range []float64{w.Simplicity, w.Coverage, w.Density, w.Legibility} {
		if !isFinite(v) || v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "weights must be non-negative and finite, got %+v", w)
		}
	}
	if c.maxSteps <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "step limit must be positive, got %d", c.maxSteps)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
