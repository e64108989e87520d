package plot

import (
	"strconv"

	"github.com/matzehuels/svgplot/pkg/errors"
)

// Defaults used when no option overrides them.
const (
	DefaultWidth    = 593
	DefaultHeight   = 415
	DefaultXDensity = 8
	DefaultYDensity = 5
	DefaultFont     = "sans-serif"
	DefaultFontSize = 14
)

// Option configures RenderSVG.
type Option func(*config)

type config struct {
	width, height int
	x, y          axisConfig
	fontFamily    string
	fontSize      string
}

type axisConfig struct {
	includeZero bool
	format      string
	density     int
}

// WithSize sets the document size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) { c.width, c.height = width, height }
}

// WithIncludeZero extends the x and/or y axis so that it contains 0.
func WithIncludeZero(x, y bool) Option {
	return func(c *config) { c.x.includeZero, c.y.includeZero = x, y }
}

// WithFormats sets fmt verbs for the x and y tick labels, e.g. "%.1f".
// An empty string keeps the shortest decimal form.
func WithFormats(x, y string) Option {
	return func(c *config) { c.x.format, c.y.format = x, y }
}

// WithDensity sets the target tick count of each axis.
func WithDensity(x, y int) Option {
	return func(c *config) { c.x.density, c.y.density = x, y }
}

// WithFont sets the label font family and size in pixels.
func WithFont(family string, size int) Option {
	return func(c *config) {
		c.fontFamily = family
		c.fontSize = strconv.Itoa(size) + "px"
	}
}

func newConfig(opts []Option) config {
	c := config{
		width:      DefaultWidth,
		height:     DefaultHeight,
		x:          axisConfig{density: DefaultXDensity},
		y:          axisConfig{density: DefaultYDensity},
		fontFamily: DefaultFont,
		fontSize:   strconv.Itoa(DefaultFontSize) + "px",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) validate() error {
	if c.width <= marginLeft+marginRight || c.height-c.height/8 <= marginTop {
		return errors.New(errors.ErrCodeInvalidConfig, "size %dx%d leaves no room to plot", c.width, c.height)
	}
	if c.x.density < 2 || c.y.density < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "tick density must be at least 2, got x=%d y=%d", c.x.density, c.y.density)
	}
	if c.fontFamily == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "font family is empty")
	}
	return nil
}
