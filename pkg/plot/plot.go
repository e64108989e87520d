package plot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/svgplot/pkg/errors"
	"github.com/matzehuels/svgplot/pkg/observability"
	"github.com/matzehuels/svgplot/pkg/svg"
)

// DefaultColor is the fill of points without an explicit color.
const DefaultColor = "#1f77b4"

// Frame margins in pixels. The bottom margin is an eighth of the height.
const (
	marginLeft  = 80
	marginRight = 16
	marginTop   = 16

	tickLength  = 8
	xLabelGap   = 20
	yLabelGap   = 10
	yLabelShift = 4
	xLegendGap  = 36
	yLegendX    = 16
)

// Point is a single marker.
type Point struct {
	X, Y  float64
	R     float64 // radius in pixels, at least 1
	Color string  // "#rgb" or "#rrggbb"; empty means DefaultColor
}

// Plot is a scatter plot ready to be rendered.
type Plot struct {
	Points  []Point
	FlipX   bool // x grows from right to left
	XLegend string
	YLegend string
}

// Validate checks that the plot has at least one point, that every
// coordinate is finite and that every color parses.
func (p Plot) Validate() error {
	if len(p.Points) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "plot has no points")
	}
	for i, pt := range p.Points {
		if !finite(pt.X) || !finite(pt.Y) || !finite(pt.R) {
			return errors.New(errors.ErrCodeInvalidInput, "point %d: coordinates must be finite", i)
		}
		if pt.Color != "" {
			if err := errors.ValidateColor(pt.Color); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
	}
	return nil
}

// RenderSVG lays out p and serializes it as an SVG document.
func RenderSVG(ctx context.Context, p Plot, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Plot()
	hooks.OnRenderStart(ctx, len(p.Points))
	start := time.Now()

	out, err := render(ctx, p, cfg)
	hooks.OnRenderComplete(ctx, len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func render(ctx context.Context, p Plot, cfg config) ([]byte, error) {
	f := newFrame(cfg.width, cfg.height)

	xs, ys := coords(p.Points)
	x, err := newAxis(ctx, "x", xs, cfg.x, f.width)
	if err != nil {
		return nil, err
	}
	y, err := newAxis(ctx, "y", ys, cfg.y, f.height)
	if err != nil {
		return nil, err
	}
	xm := x.mapper(p.FlipX)
	ym := y.mapper(true)

	doc := svg.New(float64(cfg.width), float64(cfg.height))
	doc.Rect(f.left, f.top, f.width, f.height, svg.Attrs{})

	for _, pt := range p.Points {
		doc.Circle(f.left+xm.at(pt.X), f.top+ym.at(pt.Y), max(pt.R, 1), svg.Attrs{Fill: colorOf(pt)})
	}

	text := func(anchor string) svg.Attrs {
		return svg.Attrs{TextAnchor: anchor, FontFamily: cfg.fontFamily, FontSize: cfg.fontSize}
	}

	base := f.top + f.height
	for i, v := range x.positions {
		lx := f.left + xm.at(v)
		doc.Line(lx, base, lx, base+tickLength, svg.Attrs{})
		doc.Text(lx, base+xLabelGap, x.labels[i], text("middle"))
	}
	for i, v := range y.positions {
		ly := f.top + ym.at(v)
		doc.Line(f.left-tickLength, ly, f.left, ly, svg.Attrs{})
		doc.Text(f.left-yLabelGap, ly+yLabelShift, y.labels[i], text("end"))
	}

	doc.Text(f.left+f.width/2, base+xLegendGap, p.XLegend, text("middle"))
	ty := f.top + f.height/2
	legend := text("middle")
	legend.Transform = fmt.Sprintf("rotate(270, %s, %s)", svg.Num(yLegendX), svg.Num(ty))
	doc.Text(yLegendX, ty, p.YLegend, legend)

	return doc.Bytes(), nil
}

// frame is the plotting area inside the margins.
type frame struct {
	left, top     float64
	width, height float64
}

func newFrame(width, height int) frame {
	bottom := height / 8
	return frame{
		left:   marginLeft,
		top:    marginTop,
		width:  float64(width - marginLeft - marginRight),
		height: float64(height - marginTop - bottom),
	}
}

func coords(points []Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

func colorOf(p Point) string {
	if p.Color == "" {
		return DefaultColor
	}
	return p.Color
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
