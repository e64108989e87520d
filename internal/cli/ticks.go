package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgplot/pkg/errors"
	"github.com/matzehuels/svgplot/pkg/ticks"
)

// ticksOpts holds the command-line flags for the ticks command.
type ticksOpts struct {
	density  int    // target tick count m
	nice     string // comma-separated nice numbers, most preferred first
	weights  string // simplicity,coverage,density,legibility
	strict   bool   // labels must cover the data range
	format   string // fmt verb for labels
	maxSteps int    // search step ceiling
}

// ticksCommand creates the ticks command for inspecting a tick grid.
func (c *CLI) ticksCommand() *cobra.Command {
	opts := ticksOpts{
		density:  ticks.DefaultDensity,
		maxSteps: ticks.DefaultMaxSteps,
	}

	cmd := &cobra.Command{
		Use:   "ticks MIN MAX",
		Short: "Print the tick grid chosen for a data range",
		Long: `Print the tick grid chosen for the data range [MIN, MAX].

Negative bounds must follow "--" so they are not read as flags.`,
		Example: `  svgplot ticks 8.1 14.1
  svgplot ticks --density 8 --strict 0 1
  svgplot ticks --fmt %.2f -- -0.5 3.2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dMin, dMax, err := parseRange(args[0], args[1])
			if err != nil {
				return err
			}
			tickOpts, err := opts.options()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			res, err := ticks.Generate(dMin, dMax, tickOpts...)
			if err != nil {
				return err
			}
			stats := res.Stats()
			logger.Debug("search finished",
				"steps", stats.Steps,
				"evaluated", stats.Evaluated,
				"accepted", stats.Accepted,
				"termination", stats.Termination)

			return writeTicks(cmd.OutOrStdout(), res, opts.format)
		},
	}

	cmd.Flags().IntVarP(&opts.density, "density", "m", opts.density, "target number of ticks")
	cmd.Flags().StringVar(&opts.nice, "nice", "", "nice numbers, most preferred first (default 1,5,2,2.5,4,3)")
	cmd.Flags().StringVar(&opts.weights, "weights", "", "simplicity,coverage,density,legibility weights (default 0.25,0.2,0.5,0.05)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "require labels to cover the whole range")
	cmd.Flags().StringVar(&opts.format, "fmt", "", "fmt verb for labels, e.g. %.1f")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", opts.maxSteps, "search step ceiling")

	return cmd
}

// options converts the flags into ticks options.
func (o ticksOpts) options() ([]ticks.Option, error) {
	opts := []ticks.Option{
		ticks.WithDensity(o.density),
		ticks.WithFlexible(!o.strict),
		ticks.WithMaxSteps(o.maxSteps),
	}
	if o.nice != "" {
		q, err := parseFloats(o.nice, "nice")
		if err != nil {
			return nil, err
		}
		opts = append(opts, ticks.WithNiceNumbers(q...))
	}
	if o.weights != "" {
		w, err := parseWeights(o.weights)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ticks.WithWeights(w))
	}
	return opts, nil
}

// parseRange parses the MIN and MAX arguments.
func parseRange(lo, hi string) (float64, float64, error) {
	dMin, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "MIN: %q is not a number", lo)
	}
	dMax, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "MAX: %q is not a number", hi)
	}
	return dMin, dMax, nil
}

// parseFloats parses a comma-separated list of numbers.
func parseFloats(s, name string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a number", name, p)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseWeights parses exactly four comma-separated weights.
func parseWeights(s string) (ticks.Weights, error) {
	w, err := parseFloats(s, "weights")
	if err != nil {
		return ticks.Weights{}, err
	}
	if len(w) != 4 {
		return ticks.Weights{}, errors.New(errors.ErrCodeInvalidConfig,
			"weights: want 4 values (simplicity,coverage,density,legibility), got %d", len(w))
	}
	return ticks.Weights{Simplicity: w[0], Coverage: w[1], Density: w[2], Legibility: w[3]}, nil
}

// writeTicks renders the label table followed by a summary of the search.
func writeTicks(w io.Writer, res *ticks.Result, format string) error {
	positions := res.Positions()
	labels := res.Labels(format)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("#", "position", "label")
	for i, p := range positions {
		t.Row(strconv.Itoa(i), strconv.FormatFloat(p, 'g', -1, 64), labels[i])
	}

	lo, hi := res.Extents()
	lines := []string{
		t.String(),
		keyValue("range", fmt.Sprintf("[%g, %g]", res.DomainMin(), res.DomainMax())),
		keyValue("labels", fmt.Sprintf("[%g, %g]", res.Min(), res.Max())),
		keyValue("extent", fmt.Sprintf("[%g, %g]", lo, hi)),
		keyValue("step", strconv.FormatFloat(res.Step(), 'g', -1, 64)),
		keyValue("score", StyleNumber.Render(strconv.FormatFloat(res.Score(), 'f', 4, 64))),
		keyValue("search", res.Stats().Termination.String()),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
