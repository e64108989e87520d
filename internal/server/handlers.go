package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/svgplot/pkg/errors"
	pkgio "github.com/matzehuels/svgplot/pkg/io"
	"github.com/matzehuels/svgplot/pkg/pipeline"
	"github.com/matzehuels/svgplot/pkg/ticks"
)

type ticksResponse struct {
	Score           float64   `json:"score"`
	Min             float64   `json:"min"`
	Max             float64   `json:"max"`
	Step            float64   `json:"step"`
	Count           int       `json:"count"`
	Termination     string    `json:"termination"`
	Positions       []float64 `json:"positions"`
	Labels          []string  `json:"labels"`
	DomainPositions []float64 `json:"domain_positions"`
	DomainLabels    []string  `json:"domain_labels"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dMin, err := floatParam(q.Get("min"), "min")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dMax, err := floatParam(q.Get("max"), "max")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := []ticks.Option{}
	if v := q.Get("m"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "m: %q is not an integer", v))
			return
		}
		opts = append(opts, ticks.WithDensity(m))
	}
	if v := q.Get("flexible"); v != "" {
		flexible, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "flexible: %q is not a boolean", v))
			return
		}
		opts = append(opts, ticks.WithFlexible(flexible))
	}
	if v := q.Get("nice"); v != "" {
		nice, err := floatList(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts = append(opts, ticks.WithNiceNumbers(nice...))
	}

	res, err := ticks.Generate(dMin, dMax, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := q.Get("fmt")
	writeJSON(w, http.StatusOK, ticksResponse{
		Score:           res.Score(),
		Min:             res.Min(),
		Max:             res.Max(),
		Step:            res.Step(),
		Count:           res.Count(),
		Termination:     res.Stats().Termination.String(),
		Positions:       res.Positions(),
		Labels:          res.Labels(format),
		DomainPositions: res.DomainPositions(),
		DomainLabels:    res.DomainLabels(format),
	})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	doc, err := pkgio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := plotOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	w.Write(res.Artifacts[pipeline.FormatSVG])
}

// plotOptions reads the render options of POST /plot from the query string.
func plotOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats: []string{pipeline.FormatSVG},
		FormatX: q.Get("x_fmt"),
		FormatY: q.Get("y_fmt"),
	}

	for name, dst := range map[string]*bool{"x_zero": &opts.IncludeZeroX, "y_zero": &opts.IncludeZeroY, "flip_x": &opts.FlipX} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", name, v)
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a positive integer", name, v)
			}
			*dst = n
		}
	}
	return opts, nil
}

func floatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", name, v)
	}
	return f, nil
}

func floatList(v string) ([]float64, error) {
	parts := strings.Split(v, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nice: %q is not a number", p)
		}
		out = append(out, f)
	}
	return out, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "id", requestIDFrom(r.Context()))
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeSearchExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeJSON encodes v before committing status, so an unencodable body
// becomes a 500 instead of an empty response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "response could not be encoded",
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
