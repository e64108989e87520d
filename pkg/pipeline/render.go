package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/svgplot/pkg/plot"
	"github.com/matzehuels/svgplot/pkg/render"
)

// Render generates output artifacts in the requested formats. The SVG is
// rendered once and converted for the other formats.
func Render(ctx context.Context, p plot.Plot, opts Options) (map[string][]byte, error) {
	svg, err := plot.RenderSVG(ctx, p, opts.PlotOptions()...)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
