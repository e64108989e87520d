// Package pkg provides the core libraries for svgplot.
//
// # Overview
//
// svgplot picks human-friendly axis ticks with the extended Wilkinson
// algorithm (Talbot, Lin and Hanrahan) and renders scatter plots whose axes
// use them. The pkg directory is organized into three areas:
//
//  1. [ticks] - Tick selection (scoring and the pruned search)
//  2. [plot], [svg] - Rendering the plot into an SVG document
//  3. [pipeline], [io], [cache], [render] - Loading documents, caching and
//     exporting artifacts
//
// # Architecture
//
// The typical data flow through svgplot:
//
//	JSON / CSV / TOML point document
//	         ↓
//	    [io] package (parse and validate)
//	         ↓
//	    [ticks] package (one tick grid per axis)
//	         ↓
//	    [plot] package (frame, points, ticks, legends)
//	         ↓
//	    SVG, or PNG/PDF via [render]
//
// # Quick Start
//
// Pick ticks for a data range:
//
//	res, err := ticks.Generate(8.1, 14.1)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Labels("")) // [8 10 12 14]
//
// Render a plot:
//
//	svg, err := plot.RenderSVG(ctx, plot.Plot{
//	    Points:  []plot.Point{{X: 1, Y: 2}, {X: 3, Y: 5}},
//	    XLegend: "size",
//	    YLegend: "time",
//	}, plot.WithIncludeZero(true, true))
//
// Render a file with caching, as the CLI and server do:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	doc, _ := io.ImportFile("data.csv")
//	res, _ := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg", "png"}})
//
// # Main Packages
//
// [ticks] - The extended Wilkinson search. Candidates are scored on
// simplicity, coverage, density and legibility; upper bounds on each
// sub-score prune whole branches of the search.
//
// [svg] - A minimal SVG document builder with stable number formatting.
//
// [plot] - Scatter plot rendering with axis ranges, margins and tick labels.
//
// [io] - Point documents and their JSON, CSV and TOML readers.
//
// [pipeline] - Load, render and cache orchestration shared by CLI and server.
//
// [cache] - File and null artifact caches with content-addressed keys.
//
// [render] - SVG to PNG/PDF conversion through rsvg-convert.
//
// [observability] - Hook registry for tick, render and cache events.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/ticks/...    # Specific package
//	go test -run Example       # Examples only
//	go test -fuzz FuzzGenerate ./pkg/ticks
//
// [ticks]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/ticks
// [svg]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/svg
// [plot]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/plot
// [io]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/svgplot/pkg/errors
package pkg
