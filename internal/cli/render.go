package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/svgplot/pkg/errors"
	pkgio "github.com/matzehuels/svgplot/pkg/io"
	"github.com/matzehuels/svgplot/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file, base path, or "-" for stdout
	formats  string  // comma-separated output formats
	width    int     // document width in pixels
	height   int     // document height in pixels
	scale    float64 // PNG resolution multiplier
	xZero    bool    // extend the x axis to include zero
	yZero    bool    // extend the y axis to include zero
	xFmt     string  // fmt verb for x labels
	yFmt     string  // fmt verb for y labels
	xDensity int     // target x tick count
	yDensity int     // target y tick count
	flipX    bool    // mirror the x axis
	xLegend  string  // x legend override
	yLegend  string  // y legend override
	noCache  bool    // bypass the artifact cache
	refresh  bool    // re-render and overwrite cached artifacts
	config   string  // TOML file with flag defaults
	jobs     int     // files rendered concurrently
}

// fileConfig is the TOML form of the render flags. Unset keys keep the flag
// defaults; flags given on the command line override the file.
type fileConfig struct {
	Formats  []string `toml:"formats"`
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Scale    float64  `toml:"scale"`
	XZero    *bool    `toml:"x_zero"`
	YZero    *bool    `toml:"y_zero"`
	XFmt     string   `toml:"x_fmt"`
	YFmt     string   `toml:"y_fmt"`
	XDensity int      `toml:"x_density"`
	YDensity int      `toml:"y_density"`
	FlipX    *bool    `toml:"flip_x"`
	XLegend  string   `toml:"x_legend"`
	YLegend  string   `toml:"y_legend"`
	Jobs     int      `toml:"jobs"`
}

// renderCommand creates the render command for point documents.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:    pipeline.DefaultWidth,
		height:   pipeline.DefaultHeight,
		scale:    pipeline.DefaultScale,
		xDensity: pipeline.DefaultDensityX,
		yDensity: pipeline.DefaultDensityY,
		jobs:     4,
	}

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render point documents to SVG, PNG or PDF",
		Long: `Render JSON, CSV or TOML point documents as scatter plots.

Each input is written next to itself with the format's extension unless
--output is given. With several inputs they are rendered concurrently.`,
		Example: `  svgplot render data.csv
  svgplot render -f svg,png --x-zero --y-zero data.json
  svgplot render --config svgplot.toml runs/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				cfg, err := loadConfig(opts.config)
				if err != nil {
					return err
				}
				cfg.apply(&opts, cmd.Flags().Changed)
			}
			return c.runRender(cmd.Context(), args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file, or base path for several formats (\"-\" for stdout)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	f.IntVar(&opts.width, "width", opts.width, "document width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "document height in pixels")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	f.BoolVar(&opts.xZero, "x-zero", false, "extend the x axis to include zero")
	f.BoolVar(&opts.yZero, "y-zero", false, "extend the y axis to include zero")
	f.StringVar(&opts.xFmt, "x-fmt", "", "fmt verb for x labels, e.g. %.1f")
	f.StringVar(&opts.yFmt, "y-fmt", "", "fmt verb for y labels")
	f.IntVar(&opts.xDensity, "x-density", opts.xDensity, "target number of x ticks")
	f.IntVar(&opts.yDensity, "y-density", opts.yDensity, "target number of y ticks")
	f.BoolVar(&opts.flipX, "flip-x", false, "mirror the x axis")
	f.StringVar(&opts.xLegend, "x-legend", "", "x legend (overrides the document)")
	f.StringVar(&opts.yLegend, "y-legend", "", "y legend (overrides the document)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	f.StringVar(&opts.config, "config", "", "TOML file with defaults for these flags")
	f.IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files rendered concurrently")

	return cmd
}

// loadConfig decodes a TOML render config. Unknown keys are rejected so
// typos do not pass silently.
func loadConfig(path string) (*fileConfig, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// apply copies set config values into opts for every flag that changed
// reports as not given on the command line.
func (cfg *fileConfig) apply(opts *renderOpts, changed func(string) bool) {
	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setInt := func(flag string, dst *int, v int) {
		if v != 0 && !changed(flag) {
			*dst = v
		}
	}
	setBool := func(flag string, dst *bool, v *bool) {
		if v != nil && !changed(flag) {
			*dst = *v
		}
	}

	if len(cfg.Formats) > 0 && !changed("format") {
		opts.formats = strings.Join(cfg.Formats, ",")
	}
	if cfg.Scale != 0 && !changed("scale") {
		opts.scale = cfg.Scale
	}
	setInt("width", &opts.width, cfg.Width)
	setInt("height", &opts.height, cfg.Height)
	setInt("x-density", &opts.xDensity, cfg.XDensity)
	setInt("y-density", &opts.yDensity, cfg.YDensity)
	setInt("jobs", &opts.jobs, cfg.Jobs)
	setBool("x-zero", &opts.xZero, cfg.XZero)
	setBool("y-zero", &opts.yZero, cfg.YZero)
	setBool("flip-x", &opts.flipX, cfg.FlipX)
	setString("x-fmt", &opts.xFmt, cfg.XFmt)
	setString("y-fmt", &opts.yFmt, cfg.YFmt)
	setString("x-legend", &opts.xLegend, cfg.XLegend)
	setString("y-legend", &opts.yLegend, cfg.YLegend)
}

// pipelineOptions converts the flags into validated pipeline options.
func (o *renderOpts) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:      parseFormats(o.formats),
		Width:        o.width,
		Height:       o.height,
		Scale:        o.scale,
		IncludeZeroX: o.xZero,
		IncludeZeroY: o.yZero,
		FormatX:      o.xFmt,
		FormatY:      o.yFmt,
		DensityX:     o.xDensity,
		DensityY:     o.yDensity,
		XLegend:      o.xLegend,
		YLegend:      o.yLegend,
		FlipX:        o.flipX,
		Refresh:      o.refresh,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// rendered is the outcome for one input file.
type rendered struct {
	input  string
	result *pipeline.Result
	paths  []string
}

// runRender renders every input with up to opts.jobs files in flight.
// The first failure cancels the remaining renders.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts *renderOpts) error {
	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	if opts.output != "" && len(inputs) > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "--output needs a single input file, got %d", len(inputs))
	}
	if opts.output == "-" && len(popts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "stdout output needs a single format, got %s", strings.Join(popts.Formats, ","))
	}
	if opts.jobs < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "jobs must be at least 1, got %d", opts.jobs)
	}

	runner, err := c.newRunner(opts.noCache, nil)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	results := make([]rendered, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, input := range inputs {
		g.Go(func() error {
			r, err := renderFile(ctx, runner, input, opts.output, popts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.output == "-" {
		return nil
	}
	for _, r := range results {
		printSuccess("Rendered %s", r.input)
		printStats(r.result.Stats.Points, r.result.Stats.Bytes, r.result.CacheHit)
		for _, p := range r.paths {
			printFile(p)
		}
	}
	prog.done("rendered %d file(s)", len(inputs))
	return nil
}

// renderFile loads one document, renders it and writes every artifact.
func renderFile(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) (rendered, error) {
	doc, err := pkgio.ImportFile(input)
	if err != nil {
		return rendered{}, err
	}
	loggerFromContext(ctx).Debug("loaded document", "file", input, "points", len(doc.Points))

	res, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return rendered{}, err
	}

	r := rendered{input: input, result: res}
	for _, format := range opts.Formats {
		path := outputPath(output, input, format, len(opts.Formats))
		if err := writeOutput(path, res.Artifacts[format]); err != nil {
			return rendered{}, err
		}
		if path != "-" {
			r.paths = append(r.paths, path)
		}
	}
	return r, nil
}

// outputPath picks where one format of one input is written. An explicit
// output is used as is for a single format and as a base path otherwise.
func outputPath(output, input, format string, formats int) string {
	if output == "-" || (output != "" && formats == 1) {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// "-" selects os.Stdout; otherwise the file is created or truncated.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
