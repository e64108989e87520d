// Package render converts SVG documents to raster and print formats.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to the rsvg-convert tool from librsvg:
//
//	out, err := plot.RenderSVG(ctx, p)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0) // 2x scale
//
// When rsvg-convert is not installed both return an UNSUPPORTED error; use
// [Available] to check up front.
package render
