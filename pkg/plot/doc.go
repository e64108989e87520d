// Package plot renders scatter plots to standalone SVG documents.
//
// A [Plot] is a list of [Point] values plus axis legends. [RenderSVG] lays
// the plot out in a fixed frame, asks [ticks.Generate] for one tick grid per
// axis and draws the points, the tick marks, their labels and the legends:
//
//	p := plot.Plot{
//	    Points:  []plot.Point{{X: 1, Y: 1}, {X: 2, Y: 4}, {X: 3, Y: 9}},
//	    XLegend: "n",
//	    YLegend: "n²",
//	}
//	svg, err := plot.RenderSVG(ctx, p, plot.WithIncludeZero(true, true))
//
// # Layout
//
// The frame leaves 80px on the left for the y labels, 16px on the right and
// top, and an eighth of the height at the bottom for the x labels and legend.
// Each axis covers the data range widened by 5% on both sides; only ticks
// inside that range are drawn. The y axis grows upwards. With [Plot.FlipX]
// the x axis grows to the left.
//
// # Observability
//
// Every call reports through [observability.Plot]: one OnTicks event per axis
// and an OnRenderStart/OnRenderComplete pair around the whole render.
package plot
