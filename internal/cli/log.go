// Package cli wires the svgplot commands: ticks, render, serve and cache.
//
// Every command logs through a charmbracelet/log logger carried on the
// command context. --verbose lowers the level to debug, which also turns
// on the tick, render and cache hooks.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// clockFormat prints wall time to the hundredth of a second.
const clockFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	opts := log.Options{Level: level, ReportTimestamp: true, TimeFormat: clockFormat}
	return log.NewWithOptions(w, opts)
}

// progress times one batch of work for a closing summary line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) progress {
	return progress{logger: l, start: time.Now()}
}

// done logs the formatted summary with an "elapsed" key rounded to the
// millisecond, e.g. `rendered 3 file(s) elapsed=1.234s`.
func (p progress) done(format string, args ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", elapsed)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext never returns nil: commands run outside RootCommand
// log through log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok || l == nil {
		return log.Default()
	}
	return l
}
