package io

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/svgplot/pkg/errors"
	"github.com/matzehuels/svgplot/pkg/plot"
)

// Document is a plot as stored on disk.
type Document struct {
	XLegend string  `json:"x_legend,omitempty" toml:"x_legend"`
	YLegend string  `json:"y_legend,omitempty" toml:"y_legend"`
	FlipX   bool    `json:"flip_x,omitempty" toml:"flip_x"`
	Points  []Point `json:"points" toml:"points"`
}

// Point is one marker of a Document.
type Point struct {
	X     float64 `json:"x" toml:"x"`
	Y     float64 `json:"y" toml:"y"`
	R     float64 `json:"r,omitempty" toml:"r"`
	Color string  `json:"color,omitempty" toml:"color"`
}

type pointObject Point

// UnmarshalJSON accepts an object or an [x, y] / [x, y, r] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var t []float64
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		if len(t) < 2 || len(t) > 3 {
			return fmt.Errorf("point array must have 2 or 3 elements, got %d", len(t))
		}
		*p = Point{X: t[0], Y: t[1]}
		if len(t) == 3 {
			p.R = t[2]
		}
		return nil
	}
	return json.Unmarshal(data, (*pointObject)(p))
}

// Validate checks that the document has points and that their colors parse.
func (d *Document) Validate() error {
	if len(d.Points) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document has no points")
	}
	for i, p := range d.Points {
		if p.R < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "point %d: negative radius %g", i, p.R)
		}
		if p.Color != "" {
			if err := errors.ValidateColor(p.Color); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
	}
	return nil
}

// Plot converts the document into a renderable plot.
func (d *Document) Plot() plot.Plot {
	pts := make([]plot.Point, len(d.Points))
	for i, p := range d.Points {
		pts[i] = plot.Point{X: p.X, Y: p.Y, R: p.R, Color: p.Color}
	}
	return plot.Plot{
		Points:  pts,
		FlipX:   d.FlipX,
		XLegend: d.XLegend,
		YLegend: d.YLegend,
	}
}
