// Package pipeline runs the load → ticks → render flow shared by the CLI and
// the HTTP server.
//
// # Usage
//
// Create a Runner and execute the pipeline on a loaded document:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := pkgio.ImportFile("points.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats:      []string{"svg", "png"},
//	    IncludeZeroY: true,
//	})
//	svg := result.Artifacts["svg"]
//
// Artifacts are cached per format under a key derived from the document
// content and every option that changes the output, so an unchanged input
// is never rendered twice.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgplot/pkg/cache"
	"github.com/matzehuels/svgplot/pkg/errors"
	"github.com/matzehuels/svgplot/pkg/plot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default document width in pixels.
	DefaultWidth = plot.DefaultWidth

	// DefaultHeight is the default document height in pixels.
	DefaultHeight = plot.DefaultHeight

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultDensityX and DefaultDensityY are the target tick counts.
	DefaultDensityX = plot.DefaultXDensity
	DefaultDensityY = plot.DefaultYDensity
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Output options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG only

	// Axis options
	IncludeZeroX bool   `json:"include_zero_x,omitempty"`
	IncludeZeroY bool   `json:"include_zero_y,omitempty"`
	FormatX      string `json:"format_x,omitempty"` // fmt verb for x labels
	FormatY      string `json:"format_y,omitempty"` // fmt verb for y labels
	DensityX     int    `json:"density_x,omitempty"`
	DensityY     int    `json:"density_y,omitempty"`

	// Document overrides; empty values keep the document's own
	XLegend string `json:"x_legend,omitempty"`
	YLegend string `json:"y_legend,omitempty"`
	FlipX   bool   `json:"flip_x,omitempty"`

	// Refresh skips cache lookups but still stores the new artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocumentHash is the content hash of the rendered document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points     int
	RenderTime time.Duration
	Bytes      int // total size of all artifacts
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	if o.DensityX < 2 || o.DensityY < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "density must be at least 2, got x=%d y=%d", o.DensityX, o.DensityY)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.DensityX == 0 {
		o.DensityX = DefaultDensityX
	}
	if o.DensityY == 0 {
		o.DensityY = DefaultDensityY
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlotOptions converts the options into plot.RenderSVG options.
func (o *Options) PlotOptions() []plot.Option {
	return []plot.Option{
		plot.WithSize(o.Width, o.Height),
		plot.WithIncludeZero(o.IncludeZeroX, o.IncludeZeroY),
		plot.WithFormats(o.FormatX, o.FormatY),
		plot.WithDensity(o.DensityX, o.DensityY),
	}
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:       format,
		Width:        o.Width,
		Height:       o.Height,
		IncludeZeroX: o.IncludeZeroX,
		IncludeZeroY: o.IncludeZeroY,
		FormatX:      o.FormatX,
		FormatY:      o.FormatY,
		DensityX:     o.DensityX,
		DensityY:     o.DensityY,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
